package resolver

import (
	_ "embed"
	"encoding/json"

	"github.com/aidatafoundation/contentd/internal/models"
)

//go:embed fallback.json
var fallbackJSON []byte

// FallbackPosts returns the embedded default catalog served when every
// index candidate fails. Entries carry their body inline so detail views
// keep working with no reachable origin at all.
func FallbackPosts() []models.PostEntry {
	var entries []models.PostEntry
	// The embedded catalog is validated by tests; a decode failure here is
	// a build defect, not a runtime condition.
	if err := json.Unmarshal(fallbackJSON, &entries); err != nil {
		panic("resolver: embedded fallback catalog is invalid: " + err.Error())
	}
	return entries
}

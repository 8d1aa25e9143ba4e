package api

import (
	"github.com/aidatafoundation/contentd/internal/catalog"
	"github.com/aidatafoundation/contentd/internal/models"
)

// PostListResponse wraps a catalog listing. Degraded is true when the
// listing came from the embedded fallback catalog.
type PostListResponse struct {
	Posts    []models.PostEntry `json:"posts"`
	Total    int                `json:"total"`
	Degraded bool               `json:"degraded"`
}

// PostDetail is the resolved content for a single post.
type PostDetail struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Date        string            `json:"date,omitempty"`
	Author      string            `json:"author,omitempty"`
	Category    string            `json:"category,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Frontmatter map[string]string `json:"frontmatter,omitempty"`
	Body        string            `json:"body"`
	HTML        string            `json:"html,omitempty"`
	Checksum    string            `json:"checksum,omitempty"`
	Degraded    bool              `json:"degraded"`
}

// ToolListResponse wraps a tools listing. StarsDegraded carries the star
// lookup's summary problem; the listing itself never fails on it.
type ToolListResponse struct {
	Tools         []catalog.DecoratedTool `json:"tools"`
	Total         int                     `json:"total"`
	Tags          []string                `json:"tags"`
	StarsDegraded string                  `json:"stars_degraded,omitempty"`
}

// StarsResponse maps repo keys to their star readings. Degraded carries
// the summary problem when the remote refresh could not run.
type StarsResponse struct {
	Stars    map[string]models.StarCount `json:"stars"`
	Degraded string                      `json:"degraded,omitempty"`
}

// LabListResponse wraps the lab catalog.
type LabListResponse struct {
	Labs       []models.Lab `json:"labs"`
	Categories []string     `json:"categories"`
}

// LabDetail is one lab with its resolved brief.
type LabDetail struct {
	models.Lab
	Body     string `json:"body"`
	HTML     string `json:"html,omitempty"`
	Degraded bool   `json:"degraded"`
}

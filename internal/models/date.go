package models

import "time"

// Catalog dates are human strings; ISO-8601 is preferred at the data layer
// but legacy entries use long-form US dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses a catalog date string. Unparseable strings return ok=false
// and callers must sort them after parseable ones, keeping the display string
// untouched.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

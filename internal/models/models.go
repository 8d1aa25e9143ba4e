// Package models defines the domain types for contentd.
package models

import "time"

// PostEntry is one row of the blog catalog, loaded from the remote index.
type PostEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt,omitempty"`
	Date     string   `json:"date,omitempty"`
	Author   string   `json:"author,omitempty"`
	Locator  string   `json:"path,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// Content is only set on embedded fallback posts, which carry their
	// body inline instead of a locator.
	Content string `json:"content,omitempty"`
}

// PostContent is the resolved full content for one catalog entry.
type PostContent struct {
	Entry       PostEntry         `json:"entry"`
	Raw         string            `json:"-"`
	Frontmatter map[string]string `json:"frontmatter,omitempty"`
	Body        string            `json:"body"`
	Checksum    string            `json:"checksum,omitempty"`

	// Degraded is true when every candidate source failed and Body is a
	// synthesized placeholder rather than fetched content.
	Degraded bool `json:"degraded"`
}

// StarRecord is one cached popularity reading for an external repository.
type StarRecord struct {
	RepoKey   string    `json:"repo_key"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fresh reports whether the record is still usable without a refresh.
func (r StarRecord) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.FetchedAt) < ttl
}

// StarCount is a star reading that may be unknown. Unknown is a distinct
// state, never coerced to zero, so sorting and display stay honest.
type StarCount struct {
	Count int  `json:"count,omitempty"`
	Known bool `json:"known"`
	Stale bool `json:"stale,omitempty"`
}

// Unknown is the sentinel returned for keys with no usable reading.
var Unknown = StarCount{}

// Tool is one entry of the static tools directory.
type Tool struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
	GitHub      string `json:"github,omitempty"`
	Tag         string `json:"tag"`
}

// Lab is one experiment write-up in the labs section.
type Lab struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Path         string   `json:"path"`
	Contributors []string `json:"contributors,omitempty"`
}

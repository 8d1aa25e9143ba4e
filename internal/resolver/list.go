package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/aidatafoundation/contentd/internal/models"
)

// ListFilter narrows and orders a catalog listing.
type ListFilter struct {
	// Query matches case-insensitively against title and excerpt.
	Query string
	// Category filters on the entry category (exact, case-insensitive).
	Category string
	// Tag filters on entry tags (exact, case-insensitive).
	Tag string
	// Sort is "newest" (default), "oldest", or "title".
	Sort string
}

// ListPosts returns catalog entries matching the filter, plus the degraded
// flag from index resolution for the caller's soft notice.
func (r *Resolver) ListPosts(ctx context.Context, f ListFilter) ([]models.PostEntry, bool) {
	entries, degraded := r.LoadIndex(ctx)

	out := make([]models.PostEntry, 0, len(entries))
	for _, e := range entries {
		if matches(e, f) {
			out = append(out, e)
		}
	}
	sortPosts(out, f.Sort)
	return out, degraded
}

func matches(e models.PostEntry, f ListFilter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Excerpt), q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range e.Tags {
			if strings.EqualFold(t, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// sortPosts orders entries by date. Unparseable dates sort after parseable
// ones; the sort is stable so catalog order breaks ties.
func sortPosts(entries []models.PostEntry, mode string) {
	switch mode {
	case "title":
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
		})
	case "oldest":
		sortByDate(entries, false)
	default: // newest
		sortByDate(entries, true)
	}
}

func sortByDate(entries []models.PostEntry, newestFirst bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, okI := models.ParseDate(entries[i].Date)
		tj, okJ := models.ParseDate(entries[j].Date)
		if okI != okJ {
			return okI // parseable sorts before unparseable
		}
		if !okI {
			return false // both unparseable: keep catalog order
		}
		if newestFirst {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
}

// Package source provides the ordered candidate-source abstraction shared by
// index and body resolution. A resolver holds one fixed list of fetchers and
// one fixed list of path variants; the priority policy lives here instead of
// being duplicated per call site.
package source

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound indicates a candidate path that does not exist at a source.
var ErrNotFound = errors.New("source: not found")

// Fetcher retrieves the raw bytes behind a candidate path.
type Fetcher interface {
	// Fetch returns the content at path, or an error for any non-success
	// outcome. Callers advance to the next candidate on error.
	Fetch(ctx context.Context, path string) ([]byte, error)

	// Name identifies the source in logs.
	Name() string
}

// Variants expands a locator into an ordered, deduplicated list of candidate
// paths: each base directory applied in declared order, each form emitted
// with and without a leading separator. An empty dir means the locator is
// used as-is.
func Variants(locator string, dirs []string) []string {
	locator = strings.TrimPrefix(locator, "/")
	if locator == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, dir := range dirs {
		dir = strings.Trim(dir, "/")
		p := locator
		if dir != "" && !strings.HasPrefix(locator, dir+"/") {
			p = dir + "/" + locator
		}
		add(p)
		add("/" + p)
	}
	if len(out) == 0 {
		add(locator)
		add("/" + locator)
	}
	return out
}

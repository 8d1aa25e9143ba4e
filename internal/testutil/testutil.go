// Package testutil provides shared test helpers for content sources and
// the star cache.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aidatafoundation/contentd/internal/source"
	"github.com/aidatafoundation/contentd/internal/stars"
)

// StarStore creates a temporary star cache database that is automatically
// cleaned up.
func StarStore(t *testing.T) *stars.Store {
	t.Helper()
	store, err := stars.OpenStore(filepath.Join(t.TempDir(), "stars-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// MapFetcher is an in-memory source.Fetcher backed by a path->document map.
// It records every fetched path for assertions on candidate order.
type MapFetcher struct {
	Docs    map[string]string
	Fetched []string
}

// NewMapFetcher creates a MapFetcher. A nil map means every fetch misses.
func NewMapFetcher(docs map[string]string) *MapFetcher {
	return &MapFetcher{Docs: docs}
}

func (f *MapFetcher) Name() string { return "testmap" }

func (f *MapFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	f.Fetched = append(f.Fetched, path)
	if doc, ok := f.Docs[path]; ok {
		return []byte(doc), nil
	}
	return nil, source.ErrNotFound
}

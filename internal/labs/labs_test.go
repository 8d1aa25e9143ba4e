package labs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aidatafoundation/contentd/internal/apperr"
	"github.com/aidatafoundation/contentd/internal/source"
)

type scriptedFetcher struct {
	docs    map[string]string
	fetched []string
}

func (f *scriptedFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	f.fetched = append(f.fetched, path)
	if doc, ok := f.docs[path]; ok {
		return []byte(doc), nil
	}
	return nil, source.ErrNotFound
}

func (f *scriptedFetcher) Name() string { return "scripted" }

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestListReturnsEmbeddedCatalog(t *testing.T) {
	svc := NewService(nil, quietLogger())
	labs := svc.List()
	if len(labs) != 3 {
		t.Fatalf("len(labs) = %d, want 3", len(labs))
	}
	if labs[0].ID != "data-quality-metrics" {
		t.Errorf("labs[0].ID = %q", labs[0].ID)
	}
	for _, l := range labs {
		if l.Title == "" || l.Path == "" || len(l.Contributors) == 0 {
			t.Errorf("lab %q missing metadata", l.ID)
		}
	}
}

func TestCategoriesDistinct(t *testing.T) {
	svc := NewService(nil, quietLogger())
	got := svc.Categories()
	want := []string{"Data Quality", "Ethics", "Evaluation"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetResolvesBody(t *testing.T) {
	f := &scriptedFetcher{docs: map[string]string{
		"labs/llm-evaluation.md": "# LLM Evaluation\n\nReal content.",
	}}
	svc := NewService([]source.Fetcher{f}, quietLogger())

	brief, err := svc.Get(context.Background(), "llm-evaluation")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if brief.Degraded {
		t.Error("brief marked degraded with reachable source")
	}
	if !strings.Contains(brief.Body, "Real content.") {
		t.Errorf("body = %q", brief.Body)
	}
}

func TestGetSynthesizesPlaceholder(t *testing.T) {
	f := &scriptedFetcher{}
	svc := NewService([]source.Fetcher{f}, quietLogger())

	brief, err := svc.Get(context.Background(), "ethical-synthetic-data")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !brief.Degraded {
		t.Fatal("placeholder brief not marked degraded")
	}
	for _, want := range []string{
		"# Ethical Considerations in Synthetic Data Generation",
		"## Overview",
		"synthetic datasets",
		"## How to Contribute",
		"james.wilson, aisha.patel",
	} {
		if !strings.Contains(brief.Body, want) {
			t.Errorf("placeholder missing %q", want)
		}
	}
	if len(f.fetched) == 0 {
		t.Error("no fetch attempted before degrading")
	}
}

func TestGetUnknownLab(t *testing.T) {
	svc := NewService(nil, quietLogger())
	_, err := svc.Get(context.Background(), "no-such-lab")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

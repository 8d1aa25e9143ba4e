// Package labs serves the research lab catalog and individual lab briefs.
package labs

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aidatafoundation/contentd/internal/apperr"
	"github.com/aidatafoundation/contentd/internal/models"
	"github.com/aidatafoundation/contentd/internal/source"
)

//go:embed labs.json
var rawLabs []byte

// LabBrief is a lab entry together with its resolved markdown body.
type LabBrief struct {
	Lab      models.Lab
	Body     string
	Degraded bool
}

type Service struct {
	labs     []models.Lab
	fetchers []source.Fetcher
	dirs     []string
	logger   *slog.Logger
}

// DefaultDirs are the directories probed for lab briefs, in order.
var DefaultDirs = []string{"data", ""}

func NewService(fetchers []source.Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	var labs []models.Lab
	if err := json.Unmarshal(rawLabs, &labs); err != nil {
		panic(fmt.Sprintf("labs: embedded catalog invalid: %v", err))
	}
	return &Service{
		labs:     labs,
		fetchers: fetchers,
		dirs:     DefaultDirs,
		logger:   logger,
	}
}

// List returns every lab in catalog order.
func (s *Service) List() []models.Lab {
	out := make([]models.Lab, len(s.labs))
	copy(out, s.labs)
	return out
}

// Categories returns the distinct lab categories in catalog order.
func (s *Service) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range s.labs {
		if l.Category == "" || seen[l.Category] {
			continue
		}
		seen[l.Category] = true
		out = append(out, l.Category)
	}
	return out
}

// Get resolves a lab's brief. When no source yields the document the
// brief is synthesized from catalog metadata and marked degraded.
func (s *Service) Get(ctx context.Context, id string) (*LabBrief, error) {
	lab, ok := s.find(id)
	if !ok {
		return nil, fmt.Errorf("lab %q: %w", id, apperr.ErrNotFound)
	}

	brief := &LabBrief{Lab: lab}
	for _, path := range source.Variants(lab.Path, s.dirs) {
		for _, f := range s.fetchers {
			raw, err := f.Fetch(ctx, path)
			if err != nil {
				continue
			}
			brief.Body = string(raw)
			return brief, nil
		}
	}

	s.logger.Warn("lab brief unreachable, serving placeholder", "lab", id, "path", lab.Path)
	brief.Body = placeholder(lab)
	brief.Degraded = true
	return brief, nil
}

func (s *Service) find(id string) (models.Lab, bool) {
	for _, l := range s.labs {
		if l.ID == id {
			return l, true
		}
	}
	return models.Lab{}, false
}

func placeholder(lab models.Lab) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", lab.Title)
	fmt.Fprintf(&b, "## Overview\n\n%s\n\n", lab.Description)
	b.WriteString("## Goals\n\nThis lab is under active development. Detailed goals will be published soon.\n\n")
	fmt.Fprintf(&b, "## How to Contribute\n\nOpen a pull request adding your notes to `%s`.\n\n", lab.Path)
	fmt.Fprintf(&b, "## Current Contributors\n\n%s\n", strings.Join(lab.Contributors, ", "))
	return b.String()
}

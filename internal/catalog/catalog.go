// Package catalog serves the static tools directory: search, tag filtering,
// category grouping, and optional star decoration. The catalog itself is
// bundled at build time; only star counts involve the network.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aidatafoundation/contentd/internal/models"
	"github.com/aidatafoundation/contentd/internal/stars"
)

//go:embed tools.json
var toolsJSON []byte

// Group buckets tags into the site's top-level tool categories.
type Group string

const (
	GroupAll Group = ""
	GroupAI  Group = "ai"
	GroupLLM Group = "llm"
	GroupMCP Group = "mcp"
)

// Filter narrows and orders a tools listing.
type Filter struct {
	// Query matches case-insensitively against title and description.
	Query string
	// Tag filters on the exact tag (case-insensitive substring, matching
	// the site's dropdown behavior).
	Tag string
	// Group restricts to one category bucket.
	Group Group
	// Sort is "az", "za", or "stars"; anything else keeps catalog order.
	Sort string
}

// DecoratedTool is a tool entry with its star reading attached.
type DecoratedTool struct {
	models.Tool
	Stars models.StarCount `json:"stars"`
}

// Catalog holds the bundled tool entries and the star service.
type Catalog struct {
	tools  []models.Tool
	stars  *stars.Service
	logger *slog.Logger
}

// New loads the embedded tool catalog. The star service may be nil, in
// which case every reading is the unknown sentinel.
func New(starSvc *stars.Service, logger *slog.Logger) (*Catalog, error) {
	var tools []models.Tool
	if err := json.Unmarshal(toolsJSON, &tools); err != nil {
		return nil, fmt.Errorf("catalog: decode embedded tools: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{tools: tools, stars: starSvc, logger: logger}, nil
}

// Tags returns the sorted set of distinct tags, optionally restricted to a
// group bucket.
func (c *Catalog) Tags(g Group) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range c.tools {
		if !inGroup(t.Tag, g) {
			continue
		}
		if _, ok := seen[t.Tag]; ok {
			continue
		}
		seen[t.Tag] = struct{}{}
		out = append(out, t.Tag)
	}
	sort.Strings(out)
	return out
}

// List returns tools matching the filter, decorated with star counts.
// Star data is best-effort: the summary error is returned for the caller's
// notice but never blocks the listing.
func (c *Catalog) List(ctx context.Context, f Filter) ([]DecoratedTool, error) {
	var matched []models.Tool
	for _, t := range c.tools {
		if matches(t, f) {
			matched = append(matched, t)
		}
	}

	counts, starErr := c.lookupStars(ctx, matched)

	out := make([]DecoratedTool, len(matched))
	for i, t := range matched {
		out[i] = DecoratedTool{Tool: t, Stars: counts[t.GitHub]}
	}
	sortTools(out, f.Sort)
	return out, starErr
}

func (c *Catalog) lookupStars(ctx context.Context, tools []models.Tool) (map[string]models.StarCount, error) {
	if c.stars == nil {
		return map[string]models.StarCount{}, nil
	}
	var keys []string
	for _, t := range tools {
		if t.GitHub != "" {
			keys = append(keys, t.GitHub)
		}
	}
	counts, err := c.stars.GetStars(ctx, keys)
	if err != nil {
		c.logger.Warn("star lookup degraded", slog.String("error", err.Error()))
	}
	return counts, err
}

func matches(t models.Tool, f Filter) bool {
	if !inGroup(t.Tag, f.Group) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.Tag != "" && !strings.Contains(strings.ToLower(t.Tag), strings.ToLower(f.Tag)) {
		return false
	}
	return true
}

// inGroup mirrors the site's category buckets: AI/ML-flavored tags, LLM and
// vector database tags, and MCP tags.
func inGroup(tag string, g Group) bool {
	switch g {
	case GroupAll:
		return true
	case GroupAI:
		return strings.Contains(tag, "Machine Learning") ||
			strings.Contains(tag, "Deep Learning") ||
			strings.Contains(tag, "Data") ||
			strings.Contains(tag, "Reinforcement") ||
			tag == "Programming" ||
			strings.Contains(tag, "Artificial Intelligence")
	case GroupLLM:
		return strings.Contains(tag, "LLM") || strings.Contains(tag, "Vector Database")
	case GroupMCP:
		return strings.Contains(tag, "MCP")
	default:
		return false
	}
}

// sortTools orders the listing. Star sort puts unknown readings last so the
// sentinel never masquerades as zero stars.
func sortTools(tools []DecoratedTool, mode string) {
	switch mode {
	case "az":
		sort.SliceStable(tools, func(i, j int) bool {
			return strings.ToLower(tools[i].Title) < strings.ToLower(tools[j].Title)
		})
	case "za":
		sort.SliceStable(tools, func(i, j int) bool {
			return strings.ToLower(tools[i].Title) > strings.ToLower(tools[j].Title)
		})
	case "stars":
		sort.SliceStable(tools, func(i, j int) bool {
			si, sj := tools[i].Stars, tools[j].Stars
			if si.Known != sj.Known {
				return si.Known
			}
			return si.Count > sj.Count
		})
	}
}

// FormatStarCount renders a count the way the cards display it: 1000 and up
// becomes "1.2k".
func FormatStarCount(sc models.StarCount) string {
	if !sc.Known {
		return "n/a"
	}
	if sc.Count >= 1000 {
		return fmt.Sprintf("%.1fk", float64(sc.Count)/1000)
	}
	return fmt.Sprintf("%d", sc.Count)
}

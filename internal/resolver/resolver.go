// Package resolver turns logical post identifiers into renderable content,
// tolerating an unreliable or inconsistently configured hosting environment.
//
// Both index and body resolution share one policy: try candidate sources in
// strict priority order, accept the first success, fall back to an embedded
// default when every candidate fails. Candidates are never raced in
// parallel; first success wins deterministically and a struggling origin is
// not amplified with speculative requests.
package resolver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aidatafoundation/contentd/internal/apperr"
	"github.com/aidatafoundation/contentd/internal/frontmatter"
	"github.com/aidatafoundation/contentd/internal/models"
	"github.com/aidatafoundation/contentd/internal/source"
)

// Outcome is the terminal state of one resolution request.
type Outcome int

const (
	// Resolved means real content was fetched from a candidate source.
	Resolved Outcome = iota
	// Degraded means every candidate failed and the result is synthesized.
	Degraded
	// NotFound means the requested id is absent from the loaded index.
	NotFound
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Degraded:
		return "degraded"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Resolver locates and returns post metadata and bodies.
type Resolver struct {
	fetchers        []source.Fetcher
	indexCandidates []string
	bodyDirs        []string
	fallback        []models.PostEntry
	logger          *slog.Logger

	mu       sync.Mutex
	index    []models.PostEntry
	degraded bool
	cached   bool
}

// Options configures a Resolver.
type Options struct {
	// Fetchers are tried in order for every candidate path.
	Fetchers []source.Fetcher
	// IndexCandidates are locators for the catalog index, in priority order.
	IndexCandidates []string
	// BodyDirs are base directories used to expand body locators.
	BodyDirs []string
	// Fallback is the embedded default catalog returned on total exhaustion.
	Fallback []models.PostEntry
	Logger   *slog.Logger
}

// New creates a Resolver. The fallback catalog defaults to the embedded one
// so LoadIndex can always return a non-empty sequence.
func New(opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Fallback) == 0 {
		opts.Fallback = FallbackPosts()
	}
	if len(opts.IndexCandidates) == 0 {
		opts.IndexCandidates = DefaultIndexCandidates
	}
	if len(opts.BodyDirs) == 0 {
		opts.BodyDirs = DefaultBodyDirs
	}
	return &Resolver{
		fetchers:        opts.Fetchers,
		indexCandidates: opts.IndexCandidates,
		bodyDirs:        opts.BodyDirs,
		fallback:        opts.Fallback,
		logger:          opts.Logger,
	}
}

// Default candidate locations: primary data directory, legacy directory,
// then the repository root. Variants adds the leading-separator forms.
var (
	DefaultIndexCandidates = []string{"data/blog.json", "blog/index.json", "blog.json"}
	DefaultBodyDirs        = []string{"data/posts", "posts", ""}
)

// LoadIndex returns the post catalog. It tries each candidate location in
// priority order across all fetchers and accepts the first response that
// parses as a post list. On total exhaustion it returns the embedded
// fallback catalog with degraded=true. Never returns an empty sequence and
// never returns an error.
func (r *Resolver) LoadIndex(ctx context.Context) ([]models.PostEntry, bool) {
	r.mu.Lock()
	if r.cached {
		entries, degraded := r.index, r.degraded
		r.mu.Unlock()
		return entries, degraded
	}
	r.mu.Unlock()

	entries, degraded := r.fetchIndex(ctx)

	r.mu.Lock()
	r.index, r.degraded, r.cached = entries, degraded, true
	r.mu.Unlock()
	return entries, degraded
}

// Invalidate drops the cached index so the next LoadIndex re-fetches.
// Driven by the content watcher in dev mode.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.index, r.degraded, r.cached = nil, false, false
	r.mu.Unlock()
}

func (r *Resolver) fetchIndex(ctx context.Context) ([]models.PostEntry, bool) {
	for _, candidate := range r.indexCandidates {
		for _, path := range source.Variants(candidate, []string{""}) {
			for _, f := range r.fetchers {
				data, err := f.Fetch(ctx, path)
				if err != nil {
					r.logger.Debug("index candidate failed",
						slog.String("source", f.Name()),
						slog.String("path", path),
						slog.String("error", err.Error()))
					continue
				}
				entries, err := decodeIndex(data)
				if err != nil {
					r.logger.Warn("index candidate unparseable",
						slog.String("source", f.Name()),
						slog.String("path", path),
						slog.String("error", err.Error()))
					continue
				}
				r.logger.Info("post index loaded",
					slog.String("source", f.Name()),
					slog.String("path", path),
					slog.Int("posts", len(entries)))
				return entries, false
			}
		}
	}
	r.logger.Warn("all index candidates failed; serving embedded catalog",
		slog.Int("posts", len(r.fallback)))
	return r.fallback, true
}

// decodeIndex accepts either a bare JSON array of entries or an envelope
// object with a "posts" (or "entries") field containing one.
func decodeIndex(data []byte) ([]models.PostEntry, error) {
	var entries []models.PostEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		if len(entries) == 0 {
			return nil, fmt.Errorf("resolver: empty post list")
		}
		return entries, nil
	}
	var envelope struct {
		Posts   []models.PostEntry `json:"posts"`
		Entries []models.PostEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("resolver: decode index: %w", err)
	}
	if len(envelope.Posts) > 0 {
		return envelope.Posts, nil
	}
	if len(envelope.Entries) > 0 {
		return envelope.Entries, nil
	}
	return nil, fmt.Errorf("resolver: index envelope has no posts")
}

// LoadBody resolves the full content for one catalog entry. Candidate paths
// are derived from the entry locator and tried strictly in order; the first
// success wins. On total exhaustion a placeholder is synthesized from the
// entry's title and excerpt and the degraded flag is set.
//
// An entry with neither locator nor inline content is an integration bug
// upstream and returns apperr.ErrNoLocator instead of a silent fallback.
func (r *Resolver) LoadBody(ctx context.Context, entry models.PostEntry) (*models.PostContent, error) {
	if entry.Locator == "" {
		if entry.Content == "" {
			return nil, fmt.Errorf("resolver: post %q: %w", entry.ID, apperr.ErrNoLocator)
		}
		// Embedded fallback posts carry their body inline.
		fm, body := frontmatter.Split(entry.Content)
		return &models.PostContent{
			Entry:       entry,
			Raw:         entry.Content,
			Frontmatter: fm,
			Body:        body,
			Checksum:    sha256sum([]byte(entry.Content)),
		}, nil
	}

	for _, path := range source.Variants(entry.Locator, r.bodyDirs) {
		for _, f := range r.fetchers {
			data, err := f.Fetch(ctx, path)
			if err != nil {
				r.logger.Debug("body candidate failed",
					slog.String("source", f.Name()),
					slog.String("path", path),
					slog.String("error", err.Error()))
				continue
			}
			raw := string(data)
			fm, body := frontmatter.Split(raw)
			r.logger.Info("post body resolved",
				slog.String("id", entry.ID),
				slog.String("source", f.Name()),
				slog.String("path", path))
			return &models.PostContent{
				Entry:       entry,
				Raw:         raw,
				Frontmatter: fm,
				Body:        body,
				Checksum:    sha256sum(data),
			}, nil
		}
	}

	r.logger.Warn("all body candidates failed; synthesizing placeholder",
		slog.String("id", entry.ID),
		slog.String("locator", entry.Locator))
	body := placeholderBody(entry)
	return &models.PostContent{
		Entry:    entry,
		Raw:      body,
		Body:     body,
		Checksum: sha256sum([]byte(body)),
		Degraded: true,
	}, nil
}

// Resolve looks up id in the loaded index and resolves its body.
// An absent id yields the NotFound outcome, distinct from a degraded fetch.
func (r *Resolver) Resolve(ctx context.Context, id string) (*models.PostContent, Outcome, error) {
	entries, _ := r.LoadIndex(ctx)
	for _, entry := range entries {
		if entry.ID != id {
			continue
		}
		content, err := r.LoadBody(ctx, entry)
		if err != nil {
			return nil, NotFound, err
		}
		out := Resolved
		if content.Degraded {
			out = Degraded
		}
		return content, out, nil
	}
	return nil, NotFound, nil
}

func placeholderBody(entry models.PostEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", entry.Title)
	if entry.Excerpt != "" {
		fmt.Fprintf(&b, "%s\n\n", entry.Excerpt)
	}
	b.WriteString("*The full text of this post could not be loaded.*\n")
	return b.String()
}

// sha256sum returns the hex digest used as the content checksum (and ETag).
func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

package stars

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/aidatafoundation/contentd/internal/apperr"
	"github.com/aidatafoundation/contentd/internal/models"
)

// DefaultTTL is how long a cached star count stays fresh.
const DefaultTTL = 6 * time.Hour

// Fetcher is the remote half of the service; *Client satisfies it.
type Fetcher interface {
	BatchStars(ctx context.Context, repoKeys []string) (map[string]int, error)
}

// Service resolves star counts through the TTL cache. A nil fetcher puts the
// service in cache-only mode (missing credential or static hosting mode):
// reads come from whatever the cache holds and GetStars reports the
// configuration error alongside the per-key results.
type Service struct {
	store   *Store
	fetcher Fetcher
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Store   *Store
	Fetcher Fetcher
	TTL     time.Duration
	Logger  *slog.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewService creates the star service.
func NewService(opts ServiceOptions) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:   opts.Store,
		fetcher: opts.Fetcher,
		ttl:     opts.TTL,
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

// GetStars returns a star count per repo key. Fresh cache entries are served
// without a network call; stale or missing keys are covered by exactly one
// batched remote attempt. On remote failure, stale entries degrade to their
// cached value and uncached keys resolve to the unknown sentinel.
//
// The returned error is a summary (rate limit, missing credential); partial
// results are always returned alongside it.
func (s *Service) GetStars(ctx context.Context, repoKeys []string) (map[string]models.StarCount, error) {
	keys := dedupe(repoKeys)
	out := make(map[string]models.StarCount, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	cached, err := s.store.Get(keys)
	if err != nil {
		s.logger.Warn("star cache read failed", slog.String("error", err.Error()))
		cached = map[string]models.StarRecord{}
	}

	now := s.now()
	var misses []string
	for _, key := range keys {
		rec, ok := cached[key]
		if ok && rec.Fresh(now, s.ttl) {
			out[key] = models.StarCount{Count: rec.Count, Known: true}
			continue
		}
		misses = append(misses, key)
	}
	if len(misses) == 0 {
		return out, nil
	}

	if s.fetcher == nil {
		s.degradeToCache(out, misses, cached)
		return out, apperr.ErrNoToken
	}

	fetched, fetchErr := s.fetcher.BatchStars(ctx, misses)
	if fetchErr != nil {
		s.logger.Warn("star refresh failed; serving stale cache",
			slog.Int("keys", len(misses)),
			slog.String("error", fetchErr.Error()))
		s.degradeToCache(out, misses, cached)
		return out, fetchErr
	}

	records := make([]models.StarRecord, 0, len(fetched))
	for _, key := range misses {
		count, ok := fetched[key]
		if !ok {
			// Remote call succeeded but this repo is gone or renamed.
			s.degradeToCache(out, []string{key}, cached)
			continue
		}
		out[key] = models.StarCount{Count: count, Known: true}
		records = append(records, models.StarRecord{RepoKey: key, Count: count, FetchedAt: now})
	}
	if err := s.store.Put(records); err != nil {
		s.logger.Warn("star cache write failed", slog.String("error", err.Error()))
	}
	return out, nil
}

// degradeToCache fills out with stale cached values where they exist and the
// unknown sentinel where they do not. Unknown is never coerced to zero.
func (s *Service) degradeToCache(out map[string]models.StarCount, keys []string, cached map[string]models.StarRecord) {
	for _, key := range keys {
		if rec, ok := cached[key]; ok {
			out[key] = models.StarCount{Count: rec.Count, Known: true, Stale: true}
		} else {
			out[key] = models.Unknown
		}
	}
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	var out []string
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

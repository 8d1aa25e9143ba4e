package stars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aidatafoundation/contentd/internal/apperr"
)

// DefaultEndpoint is the GitHub GraphQL API.
const DefaultEndpoint = "https://api.github.com/graphql"

// NewGitHubLimiter returns a rate limiter tuned for the authenticated
// GraphQL quota (5000 points/hour; one batched query costs one point).
func NewGitHubLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Hour/5000), 10)
}

// RateLimitError reports an exhausted API quota, with a reset estimate when
// the response carried one.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "github rate limit exceeded"
	}
	return fmt.Sprintf("github rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Client issues the batched star query. One invocation makes exactly one
// outbound call covering every requested repository, keeping well under the
// external rate limit regardless of catalog size.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// ClientOptions configures a Client.
type ClientOptions struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
	Limiter  *rate.Limiter
	Logger   *slog.Logger
}

// NewClient constructs the batch client. The token is required; callers
// without one must not construct a client (see Service).
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Token == "" {
		return nil, apperr.ErrNoToken
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.HTTP == nil {
		opts.HTTP = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.Limiter == nil {
		opts.Limiter = NewGitHubLimiter()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		endpoint: opts.Endpoint,
		token:    opts.Token,
		http:     opts.HTTP,
		limiter:  opts.Limiter,
		logger:   opts.Logger,
	}, nil
}

// BatchStars fetches star counts for the given owner/name keys in a single
// aliased GraphQL query. Keys that the API reports as missing are absent
// from the result map; the caller decides how to degrade.
func (c *Client) BatchStars(ctx context.Context, repoKeys []string) (map[string]int, error) {
	if len(repoKeys) == 0 {
		return map[string]int{}, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("stars: rate limiter wait: %w", err)
	}

	query, aliases, err := buildBatchQuery(repoKeys)
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]string{"query": query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("stars: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stars: query github: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{ResetAt: parseReset(resp.Header.Get("X-RateLimit-Reset"))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stars: github status %d", resp.StatusCode)
	}

	var body struct {
		Data   map[string]*struct {
			StargazerCount int `json:"stargazerCount"`
		} `json:"data"`
		Errors []struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("stars: decode response: %w", err)
	}
	for _, gqlErr := range body.Errors {
		if gqlErr.Type == "RATE_LIMITED" {
			return nil, &RateLimitError{ResetAt: parseReset(resp.Header.Get("X-RateLimit-Reset"))}
		}
		// NOT_FOUND errors are expected for renamed or deleted repos; the
		// corresponding alias is null in data and simply omitted below.
		c.logger.Debug("github query error",
			slog.String("type", gqlErr.Type),
			slog.String("message", gqlErr.Message))
	}

	out := make(map[string]int, len(repoKeys))
	for alias, key := range aliases {
		node, ok := body.Data[alias]
		if !ok || node == nil {
			continue
		}
		if node.StargazerCount < 0 {
			continue
		}
		out[key] = node.StargazerCount
	}
	return out, nil
}

// buildBatchQuery assembles one aliased repository query per key and
// returns the alias→key mapping for decoding.
func buildBatchQuery(repoKeys []string) (string, map[string]string, error) {
	var b strings.Builder
	aliases := make(map[string]string, len(repoKeys))
	b.WriteString("query {")
	for i, key := range repoKeys {
		owner, name, ok := strings.Cut(key, "/")
		if !ok || owner == "" || name == "" {
			return "", nil, fmt.Errorf("stars: malformed repo key %q", key)
		}
		alias := "r" + strconv.Itoa(i)
		aliases[alias] = key
		fmt.Fprintf(&b, " %s: repository(owner: %q, name: %q) { stargazerCount }", alias, owner, name)
	}
	b.WriteString(" }")
	return b.String(), aliases, nil
}

func parseReset(header string) time.Time {
	if header == "" {
		return time.Time{}
	}
	epoch, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(epoch, 0).UTC()
}

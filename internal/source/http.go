package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTP fetches candidate paths from a remote content origin.
type HTTP struct {
	base   string
	client *http.Client
}

// NewHTTP creates an HTTP fetcher rooted at the given origin URL.
func NewHTTP(base string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("source: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("source: base url must be absolute: %s", base)
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTP{base: strings.TrimRight(base, "/"), client: client}, nil
}

// Name implements Fetcher.
func (h *HTTP) Name() string { return h.base }

// Fetch performs a GET for path against the origin. Non-2xx statuses are
// errors so the caller advances to the next candidate.
func (h *HTTP) Fetch(ctx context.Context, path string) ([]byte, error) {
	target := h.base + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: get %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("source: get %s: %w", target, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("source: get %s: status %d", target, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", target, err)
	}
	return data, nil
}

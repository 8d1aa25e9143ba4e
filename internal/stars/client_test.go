package stars

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aidatafoundation/contentd/internal/apperr"
)

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	if !errors.Is(err, apperr.ErrNoToken) {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
}

func TestBatchStars_SingleAliasedQuery(t *testing.T) {
	var calls int
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("auth header = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Query string `json:"query"`
		}
		json.Unmarshal(body, &payload)
		gotQuery = payload.Query
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"r0": map[string]int{"stargazerCount": 100},
				"r1": map[string]int{"stargazerCount": 200},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Endpoint: srv.URL, Token: "tok", HTTP: srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.BatchStars(context.Background(), []string{"owner/a", "owner/b"})
	if err != nil {
		t.Fatalf("BatchStars: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want one combined request", calls)
	}
	if got["owner/a"] != 100 || got["owner/b"] != 200 {
		t.Errorf("got = %v", got)
	}
	for _, frag := range []string{`repository(owner: "owner", name: "a")`, `repository(owner: "owner", name: "b")`, "stargazerCount"} {
		if !strings.Contains(gotQuery, frag) {
			t.Errorf("query %q missing %q", gotQuery, frag)
		}
	}
}

func TestBatchStars_RateLimitedWithReset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Reset", "1682942400")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Endpoint: srv.URL, Token: "tok", HTTP: srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.BatchStars(context.Background(), []string{"a/b"})
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
	if rlErr.ResetAt.IsZero() {
		t.Error("reset estimate missing")
	}
	if !strings.Contains(rlErr.Error(), "resets at") {
		t.Errorf("message %q should carry the reset estimate", rlErr.Error())
	}
}

func TestBatchStars_GraphQLRateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":   map[string]any{},
			"errors": []map[string]string{{"type": "RATE_LIMITED", "message": "API rate limit exceeded"}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Endpoint: srv.URL, Token: "tok", HTTP: srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.BatchStars(context.Background(), []string{"a/b"})
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
}

func TestBatchStars_MissingRepoOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"r0": map[string]int{"stargazerCount": 7},
				"r1": nil,
			},
			"errors": []map[string]string{{"type": "NOT_FOUND", "message": "Could not resolve"}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Endpoint: srv.URL, Token: "tok", HTTP: srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.BatchStars(context.Background(), []string{"a/b", "gone/repo"})
	if err != nil {
		t.Fatalf("BatchStars: %v", err)
	}
	if got["a/b"] != 7 {
		t.Errorf("got = %v", got)
	}
	if _, ok := got["gone/repo"]; ok {
		t.Error("missing repo must be absent from results")
	}
}

func TestBatchStars_MalformedKey(t *testing.T) {
	c, err := NewClient(ClientOptions{Endpoint: "http://unused", Token: "tok"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.BatchStars(context.Background(), []string{"no-slash"}); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestBatchStars_EmptyKeys(t *testing.T) {
	c, err := NewClient(ClientOptions{Endpoint: "http://unused", Token: "tok"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.BatchStars(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("got = %v err = %v", got, err)
	}
}

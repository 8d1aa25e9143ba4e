package internal

import (
	"testing"
	"time"

	"github.com/aidatafoundation/contentd/internal/stars"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		c := HTTPConfig{Port: port}
		if err := c.Validate(); err == nil {
			t.Errorf("port %d accepted", port)
		}
	}
	c := HTTPConfig{Port: 8080}
	if err := c.Validate(); err != nil {
		t.Errorf("port 8080 rejected: %v", err)
	}
}

func TestContentConfig_BaseURL(t *testing.T) {
	c := ContentConfig{BaseURL: "not-a-url"}
	if err := c.Validate(); err == nil {
		t.Error("relative base_url accepted")
	}
	c = ContentConfig{BaseURL: "https://example.org"}
	if err := c.Validate(); err != nil {
		t.Errorf("absolute base_url rejected: %v", err)
	}
	// Empty origin is a valid deployment (embedded fallback only).
	c = ContentConfig{}
	if err := c.Validate(); err != nil {
		t.Errorf("empty origin rejected: %v", err)
	}
}

func TestGitHubConfig_TTL(t *testing.T) {
	c := GitHubConfig{StarTTL: "90m"}
	if err := c.Validate(); err != nil {
		t.Fatalf("valid ttl rejected: %v", err)
	}
	if c.TTL() != 90*time.Minute {
		t.Errorf("TTL() = %v", c.TTL())
	}

	c = GitHubConfig{StarTTL: "soon"}
	if err := c.Validate(); err == nil {
		t.Error("unparseable ttl accepted")
	}

	c = GitHubConfig{}
	if c.TTL() != stars.DefaultTTL {
		t.Errorf("empty ttl = %v, want default", c.TTL())
	}
}

func TestCacheConfig_PathRequired(t *testing.T) {
	c := CacheConfig{}
	if err := c.Validate(); err == nil {
		t.Error("empty cache path accepted")
	}
}

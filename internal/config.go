package internal

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidatafoundation/contentd/internal/stars"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	GitHub  GitHubConfig      `yaml:"github"`
	Cache   CacheConfig       `yaml:"cache"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.GitHub.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig holds the content origin settings. Both origins are
// optional: with neither configured the service runs entirely on the
// embedded fallback catalog.
type ContentConfig struct {
	// BaseURL is the remote content origin, e.g. the published site root.
	BaseURL string `yaml:"base_url"`
	// LocalDir is a local content checkout, tried before the remote
	// origin. Changes under it invalidate the index cache when Watch is on.
	LocalDir string `yaml:"local_dir"`
	Watch    bool   `yaml:"watch"`

	// IndexCandidates and BodyDirs override the built-in candidate
	// locations; empty means defaults.
	IndexCandidates []string `yaml:"index_candidates"`
	BodyDirs        []string `yaml:"body_dirs"`

	// StaticHosting marks a deployment with no backend credentials at
	// all: star refresh stays off even when a token is present.
	StaticHosting bool `yaml:"static_hosting"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if c.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("content: base_url %q is not an absolute URL", c.BaseURL)
	}
	return nil
}

// GitHubConfig holds the star lookup settings.
//
// An empty token puts star lookups in cache-only mode: cached readings
// are still served but nothing is refreshed, and the condition is
// reported explicitly rather than papered over with zeros.
type GitHubConfig struct {
	Token    string `yaml:"token"`
	Endpoint string `yaml:"endpoint"`
	StarTTL  string `yaml:"star_ttl"`
}

// Validate validates the GitHub configuration.
func (c *GitHubConfig) Validate() error {
	if c.StarTTL == "" {
		return nil
	}
	if _, err := time.ParseDuration(c.StarTTL); err != nil {
		return fmt.Errorf("github: star_ttl %q: %w", c.StarTTL, err)
	}
	return nil
}

// TTL returns the parsed star cache TTL.
func (c *GitHubConfig) TTL() time.Duration {
	d, err := time.ParseDuration(c.StarTTL)
	if err != nil || d <= 0 {
		return stars.DefaultTTL
	}
	return d
}

// CacheConfig holds the star cache database configuration.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			BaseURL: "https://aidatafoundation.github.io",
		},
		GitHub: GitHubConfig{
			Token:    os.Getenv("GITHUB_TOKEN"),
			Endpoint: stars.DefaultEndpoint,
			StarTTL:  "6h",
		},
		Cache: CacheConfig{
			Path: "./contentd.db",
		},
	}
}

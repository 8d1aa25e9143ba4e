// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/aidatafoundation/contentd/internal/api"
	"github.com/aidatafoundation/contentd/internal/catalog"
	"github.com/aidatafoundation/contentd/internal/labs"
	"github.com/aidatafoundation/contentd/internal/mcpserver"
	"github.com/aidatafoundation/contentd/internal/resolver"
	"github.com/aidatafoundation/contentd/internal/source"
	"github.com/aidatafoundation/contentd/internal/stars"
)

type services struct {
	posts *resolver.Resolver
	tools *catalog.Catalog
	stars *stars.Service
	labs  *labs.Service
	store *stars.Store
}

func (s *services) close() {
	if s.store != nil {
		s.store.Close()
	}
}

// buildServices wires the domain services from configuration. The same
// wiring backs both the HTTP server and the MCP stdio surface.
func buildServices(cfg *Config, logger *slog.Logger) (*services, error) {
	var fetchers []source.Fetcher
	if cfg.Content.LocalDir != "" {
		fs, err := source.NewFS(cfg.Content.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("init local source: %w", err)
		}
		fetchers = append(fetchers, fs)
	}
	if cfg.Content.BaseURL != "" {
		web, err := source.NewHTTP(cfg.Content.BaseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("init remote source: %w", err)
		}
		fetchers = append(fetchers, web)
	}
	if len(fetchers) == 0 {
		logger.Warn("no content origin configured; serving embedded fallback only")
	}

	posts := resolver.New(resolver.Options{
		Fetchers:        fetchers,
		IndexCandidates: cfg.Content.IndexCandidates,
		BodyDirs:        cfg.Content.BodyDirs,
		Logger:          logger,
	})

	store, err := stars.OpenStore(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("init star cache: %w", err)
	}

	var fetcher stars.Fetcher
	switch {
	case cfg.Content.StaticHosting:
		logger.Info("static hosting mode; star counts limited to cached readings")
	case cfg.GitHub.Token == "":
		// Cache-only mode. Loud here; GetStars keeps reporting it.
		logger.Warn("github token not configured; star counts limited to cached readings")
	default:
		client, err := stars.NewClient(stars.ClientOptions{
			Endpoint: cfg.GitHub.Endpoint,
			Token:    cfg.GitHub.Token,
			Logger:   logger,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("init star client: %w", err)
		}
		fetcher = client
	}

	starSvc := stars.NewService(stars.ServiceOptions{
		Store:   store,
		Fetcher: fetcher,
		TTL:     cfg.GitHub.TTL(),
		Logger:  logger,
	})

	tools, err := catalog.New(starSvc, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init tool catalog: %w", err)
	}

	return &services{
		posts: posts,
		tools: tools,
		stars: starSvc,
		labs:  labs.NewService(fetchers, logger),
		store: store,
	}, nil
}

func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(cfg)
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("base_url", cfg.Content.BaseURL),
		slog.String("local_dir", cfg.Content.LocalDir),
		slog.String("cache_path", cfg.Cache.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svcs, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svcs.close()

	apiRouter := api.NewRouter(api.NewHandler(svcs.posts, svcs.tools, svcs.stars, svcs.labs), logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the local content checkout and drop the index cache on change.
	if cfg.Content.LocalDir != "" && cfg.Content.Watch {
		g.Go(func() error {
			return source.Watch(gCtx, cfg.Content.LocalDir, logger, svcs.posts.Invalidate)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the catalog over MCP stdio with the given options.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Logs go to stderr; stdout belongs to the MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svcs, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svcs.close()

	srv := mcpserver.New(svcs.posts, svcs.tools, svcs.stars, svcs.labs)
	logger.Info("Starting MCP server on stdio")
	return srv.ServeStdio()
}

package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(h *Handler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))

	// Blog content.
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{id}", h.GetPost)

	// Tools directory.
	r.Get("/tools", h.ListTools)

	// Star counts.
	r.Get("/stars", h.GetStars)

	// Labs.
	r.Get("/labs", h.ListLabs)
	r.Get("/labs/{id}", h.GetLab)

	return r
}

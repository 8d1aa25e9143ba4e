package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aidatafoundation/contentd/internal/apperr"
	"github.com/aidatafoundation/contentd/internal/catalog"
	"github.com/aidatafoundation/contentd/internal/labs"
	"github.com/aidatafoundation/contentd/internal/render"
	"github.com/aidatafoundation/contentd/internal/resolver"
	"github.com/aidatafoundation/contentd/internal/stars"
)

// Handler holds API route handlers.
type Handler struct {
	posts *resolver.Resolver
	tools *catalog.Catalog
	stars *stars.Service
	labs  *labs.Service
}

// NewHandler creates a new Handler. The star service runs in cache-only
// mode when the deployment has no GitHub credential; it is never nil.
func NewHandler(posts *resolver.Resolver, tools *catalog.Catalog, starSvc *stars.Service, labSvc *labs.Service) *Handler {
	return &Handler{posts: posts, tools: tools, stars: starSvc, labs: labSvc}
}

// wantsHTML reports whether the client asked for a pre-rendered body.
func wantsHTML(r *http.Request) bool {
	return r.URL.Query().Get("format") == "html"
}

// ListPosts handles GET /api/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	posts, degraded := h.posts.ListPosts(r.Context(), resolver.ListFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Sort:     q.Get("sort"),
	})
	writeJSON(w, http.StatusOK, PostListResponse{
		Posts:    posts,
		Total:    len(posts),
		Degraded: degraded,
	})
}

// GetPost handles GET /api/posts/{id}.
//
// An unknown id is a 404; a post whose body could not be fetched is a 200
// with the degraded flag set and a placeholder body. The content checksum
// doubles as the ETag.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	content, outcome, err := h.posts.Resolve(r.Context(), id)
	if err != nil {
		slog.Error("resolve post failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if outcome == resolver.NotFound {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	if match := strings.Trim(r.Header.Get("If-None-Match"), `"`); match != "" && match == content.Checksum {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", `"`+content.Checksum+`"`)

	detail := PostDetail{
		ID:          content.Entry.ID,
		Title:       content.Entry.Title,
		Date:        content.Entry.Date,
		Author:      content.Entry.Author,
		Category:    content.Entry.Category,
		Tags:        content.Entry.Tags,
		Frontmatter: content.Frontmatter,
		Body:        content.Body,
		Checksum:    content.Checksum,
		Degraded:    content.Degraded,
	}
	if wantsHTML(r) {
		html, err := render.ToHTML(content.Body)
		if err != nil {
			slog.Error("render post failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		detail.HTML = html
	}
	writeJSON(w, http.StatusOK, detail)
}

// ListTools handles GET /api/tools.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Query: q.Get("q"),
		Tag:   q.Get("tag"),
		Group: catalog.Group(q.Get("group")),
		Sort:  q.Get("sort"),
	}
	tools, starErr := h.tools.List(r.Context(), f)
	resp := ToolListResponse{
		Tools: tools,
		Total: len(tools),
		Tags:  h.tools.Tags(f.Group),
	}
	if starErr != nil {
		resp.StarsDegraded = starErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetStars handles GET /api/stars?repos=owner/name,owner/name.
//
// Partial results are always returned; a remote failure or a missing
// credential shows up in the degraded field, never as a synthetic zero.
func (h *Handler) GetStars(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("repos")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'repos' is required"))
		return
	}
	keys := strings.Split(raw, ",")
	counts, err := h.stars.GetStars(r.Context(), keys)
	resp := StarsResponse{Stars: counts}
	if err != nil {
		resp.Degraded = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListLabs handles GET /api/labs.
func (h *Handler) ListLabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LabListResponse{
		Labs:       h.labs.List(),
		Categories: h.labs.Categories(),
	})
}

// GetLab handles GET /api/labs/{id}.
func (h *Handler) GetLab(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	brief, err := h.labs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("resolve lab failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	detail := LabDetail{Lab: brief.Lab, Body: brief.Body, Degraded: brief.Degraded}
	if wantsHTML(r) {
		html, err := render.ToHTML(brief.Body)
		if err != nil {
			slog.Error("render lab failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		detail.HTML = html
	}
	writeJSON(w, http.StatusOK, detail)
}

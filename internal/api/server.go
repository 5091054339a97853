// Package api exposes the layout pipeline over HTTP: upload a model, list
// its views, trigger auto-layout on a view, and read the result back.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/archonhq/archon/pkg/cache"
	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/layout"
	"github.com/archonhq/archon/pkg/model"
)

// Server handles the HTTP API. Each layout request builds a fresh engine
// over the stored model; the persistent cache layer is what carries solver
// outputs across requests.
type Server struct {
	store    ModelStore
	provider layout.SolverProvider
	cache    cache.Cache
	keyer    cache.Keyer
	logger   *log.Logger
	router   chi.Router
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithCache attaches a persistent layout cache shared across requests.
func WithCache(c cache.Cache, k cache.Keyer) ServerOption {
	return func(s *Server) {
		s.cache = c
		s.keyer = k
	}
}

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer creates the API server over a model store and solver provider.
func NewServer(store ModelStore, provider layout.SolverProvider, opts ...ServerOption) *Server {
	s := &Server{
		store:    store,
		provider: provider,
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Route("/models", func(r chi.Router) {
			r.Get("/", s.handleListModels)
			r.Post("/", s.handleCreateModel)
			r.Route("/{modelID}", func(r chi.Router) {
				r.Get("/", s.handleGetModel)
				r.Delete("/", s.handleDeleteModel)
				r.Get("/views", s.handleListViews)
				r.Post("/views/{viewID}/layout", s.handleLayoutView)
			})
		})
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCreateModel(w http.ResponseWriter, r *http.Request) {
	var m model.Model
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode model"))
		return
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := m.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), &m); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": m.ID})
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Get(r.Context(), chi.URLParam(r, "modelID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "modelID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ViewSummary is the per-view listing shape.
type ViewSummary struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        model.ViewKind `json:"kind"`
	Layoutable  bool           `json:"layoutable"`
	Nodes       int            `json:"nodes"`
	Connections int            `json:"connections"`
}

func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Get(r.Context(), chi.URLParam(r, "modelID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	summaries := make([]ViewSummary, 0, len(m.Views))
	for _, v := range m.Views {
		summaries = append(summaries, ViewSummary{
			ID:          v.ID,
			Name:        v.Name,
			Kind:        v.Kind,
			Layoutable:  v.Kind.Layoutable(),
			Nodes:       len(v.Nodes),
			Connections: len(v.Connections),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// LayoutRequest is the body of a layout call. Options follow the same
// shape and defaults as the CLI flags.
type LayoutRequest struct {
	Options   layout.Options `json:"options"`
	Selection []string       `json:"selection,omitempty"`
}

func (s *Server) handleLayoutView(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelID")
	viewID := chi.URLParam(r, "viewID")

	// Options absent from the body keep their defaults, locked-node
	// preservation included.
	req := LayoutRequest{Options: layout.DefaultOptions()}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout request"))
			return
		}
	}

	m, err := s.store.Get(r.Context(), modelID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	engine := layout.NewEngine(model.NewStore(m), s.provider,
		layout.WithCache(s.cache, s.keyer),
		layout.WithLogger(s.logger))
	result, err := engine.AutoLayoutView(r.Context(), viewID, req.Options, req.Selection)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !result.Skipped {
		if err := s.store.Put(r.Context(), m); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeModelNotFound, errors.ErrCodeViewNotFound,
		errors.ErrCodeElementNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOption,
		errors.ErrCodeInvalidModel, errors.ErrCodeInvalidSelection,
		errors.ErrCodeUnsupportedKind:
		status = http.StatusBadRequest
	case errors.ErrCodeSolverUnavailable:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

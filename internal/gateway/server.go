package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"search-gateway/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Searcher performs one upstream search. Implementations return
// *UpstreamError for every failure.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]VideoResult, error)
}

type Server struct {
	cfg      *config.Config
	searcher Searcher
	log      *slog.Logger
	metrics  *searchMetrics
}

func NewServer(cfg *config.Config, s Searcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	m, err := newSearchMetrics()
	if err != nil {
		logger.Warn("search metrics disabled", "error", err)
	}
	return &Server{
		cfg:      cfg,
		searcher: s,
		log:      logger,
		metrics:  m,
	}
}

// Router wires the public routes. mw runs outside the JSON recoverer, so
// access logging still sees the 500 written for a panic.
func (s *Server) Router(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Use(s.recoverer)
	r.Use(middleware.GetHead)

	r.NotFound(s.HandleNotFound)
	r.MethodNotAllowed(s.HandleNotFound)

	r.Get("/health", s.HandleHealth)
	r.Get("/api/search", s.HandleSearch)

	return r
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "search-gateway",
	})
}

func (s *Server) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgEndpointNotFound)
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				s.log.Error("unhandled error",
					"panic", rvr,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, msgInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

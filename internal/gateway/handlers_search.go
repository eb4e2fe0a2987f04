package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := s.Search(r.Context(), q.Get("q"), q.Get("maxResults"))
	if err != nil {
		status, body := ErrorResponseFor(err)
		s.logFailure(r, err, status)
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ParseSearchRequest validates raw query parameters. An empty maxResults
// selects the default.
func ParseSearchRequest(query, maxResults string) (SearchRequest, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchRequest{}, ErrMissingQuery
	}

	limit := defaultMaxResults
	if raw := strings.TrimSpace(maxResults); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return SearchRequest{}, ErrInvalidMaxResults
		}
		limit = v
	}

	return SearchRequest{Query: query, MaxResults: limit}, nil
}

// Search validates the request, checks the credential and calls upstream.
// Errors are *RequestError or *UpstreamError; see ErrorResponseFor.
func (s *Server) Search(ctx context.Context, query, maxResults string) (SearchResponse, error) {
	resp, err := s.search(ctx, query, maxResults)

	outcome := "ok"
	if err != nil {
		outcome = kindOf(err).String()
	}
	s.metrics.recordOutcome(ctx, outcome)

	return resp, err
}

func (s *Server) search(ctx context.Context, query, maxResults string) (SearchResponse, error) {
	req, err := ParseSearchRequest(query, maxResults)
	if err != nil {
		return SearchResponse{}, err
	}
	if !s.cfg.HasAPIKey() {
		return SearchResponse{}, ErrAPIKeyNotSet
	}

	start := time.Now()
	items, err := s.searcher.Search(ctx, req.Query, req.MaxResults)
	if err != nil {
		s.metrics.recordUpstream(ctx, kindOf(err).String(), time.Since(start))
		return SearchResponse{}, err
	}
	s.metrics.recordUpstream(ctx, "ok", time.Since(start))

	if items == nil {
		items = []VideoResult{}
	}
	return SearchResponse{Results: items}, nil
}

func (s *Server) logFailure(r *http.Request, err error, status int) {
	kind := kindOf(err)
	level := slog.LevelWarn
	if kind == KindValidation {
		level = slog.LevelDebug
	}
	s.log.Log(r.Context(), level, "search failed",
		"kind", kind.String(),
		"status", status,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
}

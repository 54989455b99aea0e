package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync/atomic"

	"wiki_ladder/pkg/search"
)

// maxIDLen bounds a page identifier in a request.
const maxIDLen = 1024

// Sizer reports the number of cached pages.
type Sizer interface {
	Len() int
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	finder search.Finder
	cache  Sizer
	stats  StatsResponse
	logger *slog.Logger
	served atomic.Int64
}

// NewHandlers creates handlers with the given finder. cache may be nil.
// stats carries the static fields reported by /api/v1/stats.
func NewHandlers(finder search.Finder, cache Sizer, stats StatsResponse, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		finder: finder,
		cache:  cache,
		stats:  stats,
		logger: logger,
	}
}

// HandleLadder handles POST /api/v1/ladder.
func (h *Handlers) HandleLadder(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
		return
	}

	var req LadderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
		return
	}

	start, ok := normalizeID(req.Start)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Field: "start"})
		return
	}
	end, ok := normalizeID(req.End)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Field: "end"})
		return
	}

	h.served.Add(1)
	res, err := h.finder.Find(r.Context(), start, end)
	if err != nil {
		steps := 0
		if res != nil {
			steps = res.Steps
		}
		var re *search.RetrievalError
		switch {
		case errors.Is(err, search.ErrNotFound):
			writeError(w, http.StatusNotFound, ErrorResponse{Error: "no_ladder_found", Steps: steps})
		case errors.Is(err, search.ErrTimeout),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, ErrorResponse{Error: "search_timeout", Steps: steps})
		case errors.As(err, &re):
			writeError(w, http.StatusBadGateway, ErrorResponse{Error: "retrieval_failed", Page: re.ID, Steps: steps})
		default:
			h.logger.Error("ladder query failed", "start", start, "end", end, "err", err)
			writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, LadderResponse{
		Ladder:    res.Ladder.IDs(),
		Steps:     res.Steps,
		Skipped:   res.Skipped,
		ElapsedMs: res.Elapsed.Milliseconds(),
	})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.stats
	if h.cache != nil {
		stats.CachedPages = h.cache.Len()
	}
	stats.SearchesServed = h.served.Load()
	writeJSON(w, http.StatusOK, stats)
}

// normalizeID trims s and maps spaces to underscores, the form page
// identifiers take in links.
func normalizeID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxIDLen {
		return "", false
	}
	return strings.ReplaceAll(s, " ", "_"), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}

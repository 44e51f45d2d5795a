package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jlambert/stancewatch/pkg/handlers"
	"github.com/jlambert/stancewatch/pkg/routes"
)

// Handler provides HTTP endpoints for ingestion operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "ingest"),
	}
}

// Routes returns the route group definition for ingestion endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/ingest",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/batch", Handler: h.Batch},
			{Method: "POST", Pattern: "/{slug}", Handler: h.One},
			{Method: "GET", Pattern: "/{slug}/stream", Handler: h.Stream},
		},
	}
}

// StatusRoutes returns the route group for the status endpoint.
func (h *Handler) StatusRoutes() routes.Group {
	return routes.Group{
		Prefix: "/status",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Status},
		},
	}
}

// One runs a full ingestion for a single person and returns its RunSummary.
func (h *Handler) One(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	windowDays := parseWindow(r)

	summary, err := h.sys.IngestOne(r.Context(), slug, windowDays)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Batch runs ingestion for a set of persons in bounded concurrent groups.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	result, err := h.sys.IngestBatch(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Stream runs a single-person ingestion while pushing newline-delimited JSON
// page events to the client, ending with the run summary.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	windowDays := parseWindow(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError,
			fmt.Errorf("streaming unsupported by connection"))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	emit := func(info PageInfo) error {
		if err := enc.Encode(streamEvent{Type: "page", Page: &info}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	summary, err := h.sys.IngestStream(r.Context(), slug, windowDays, emit)
	if err != nil {
		enc.Encode(streamEvent{Type: "error", Error: err.Error()})
		flusher.Flush()
		return
	}

	enc.Encode(streamEvent{Type: "summary", Summary: summary})
	flusher.Flush()
}

// Status reports provider enablement, budget usage, and roster size.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Status())
}

type streamEvent struct {
	Type    string      `json:"type"`
	Page    *PageInfo   `json:"page,omitempty"`
	Summary *RunSummary `json:"summary,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func parseWindow(r *http.Request) int {
	if v := r.URL.Query().Get("window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

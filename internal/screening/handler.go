package screening

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jlambert/stancewatch/pkg/handlers"
	"github.com/jlambert/stancewatch/pkg/routes"
)

// Handler provides HTTP endpoints for screening operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "screening"),
	}
}

// Routes returns the route group definition for screening endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/screening",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/run", Handler: h.Run},
			{Method: "GET", Pattern: "/status", Handler: h.Status},
		},
	}
}

type runRequest struct {
	Slug string `json:"slug,omitempty"`
}

// Run executes the screening pipeline over persisted batches. An optional
// slug restricts the run to one person's buckets.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	report, err := h.sys.Run(r.Context(), req.Slug)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Status returns the last published screening progress record.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	record, err := h.sys.Status(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}

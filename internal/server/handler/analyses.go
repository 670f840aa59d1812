package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// RunLister is the service surface the history handler needs.
type RunLister interface {
	Recent(ctx context.Context, limit int) ([]domain.AnalysisResult, error)
	HistoryEnabled() bool
}

// AnalysesHandler serves the persisted run history.
type AnalysesHandler struct {
	lister RunLister
	logger *slog.Logger
}

// NewAnalysesHandler creates an AnalysesHandler.
func NewAnalysesHandler(lister RunLister, logger *slog.Logger) *AnalysesHandler {
	return &AnalysesHandler{
		lister: lister,
		logger: logger.With(slog.String("handler", "analyses")),
	}
}

// ListRecent returns the most recent analysis runs, newest first.
// GET /api/analyses/recent?limit=...
func (h *AnalysesHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	if !h.lister.HistoryEnabled() {
		writeError(w, http.StatusNotImplemented, "run history requires a configured database")
		return
	}

	limit := parseLimit(r, 20)

	results, err := h.lister.Recent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list recent runs failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "could not load run history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

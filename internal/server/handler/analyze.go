package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mkarpenko/steamarb/internal/domain"
	"github.com/mkarpenko/steamarb/internal/service"
)

// AnalysisRunner is the service surface the analyze handler needs.
type AnalysisRunner interface {
	Analyze(ctx context.Context, p service.AnalyzeParams) (domain.AnalysisResult, error)
}

// AnalyzeHandler serves the analysis trigger endpoint.
type AnalyzeHandler struct {
	runner       AnalysisRunner
	defaultAppID int
	logger       *slog.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(runner AnalysisRunner, defaultAppID int, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		runner:       runner,
		defaultAppID: defaultAppID,
		logger:       logger.With(slog.String("handler", "analyze")),
	}
}

// analyzeRequest is the POST /api/analyze request body. SteamID accepts a
// SteamID64, a profile URL, or a vanity name.
type analyzeRequest struct {
	SteamID  string `json:"steamid"`
	AppID    int    `json:"appId"`
	Currency string `json:"currency"`
	MaxItems int    `json:"maxItems"`
}

// Analyze runs a full inventory analysis for the requested account.
// POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.SteamID = strings.TrimSpace(req.SteamID)
	if req.SteamID == "" {
		writeError(w, http.StatusBadRequest, "steamid is required")
		return
	}
	if req.Currency != "" && !strings.EqualFold(req.Currency, "USD") {
		writeError(w, http.StatusBadRequest, "only USD is supported")
		return
	}
	if req.MaxItems < 0 {
		writeError(w, http.StatusBadRequest, "maxItems must be >= 0")
		return
	}
	if req.AppID == 0 {
		req.AppID = h.defaultAppID
	}

	result, err := h.runner.Analyze(r.Context(), service.AnalyzeParams{
		Account:  req.SteamID,
		AppID:    req.AppID,
		MaxItems: req.MaxItems,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "analysis failed",
			slog.String("account", req.SteamID),
			slog.Int("app_id", req.AppID),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

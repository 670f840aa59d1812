package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// maxInventoryItems caps how many items a single inventory response carries.
// itemCount still reports the full inventory size.
const maxInventoryItems = 100

// InventoryFetcher is the service surface the inventory handler needs.
type InventoryFetcher interface {
	Inventory(ctx context.Context, account string, appID, contextID int) ([]domain.Item, string, error)
}

// InventoryHandler serves the raw inventory listing endpoint.
type InventoryHandler struct {
	fetcher      InventoryFetcher
	defaultAppID int
	logger       *slog.Logger
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(fetcher InventoryFetcher, defaultAppID int, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		fetcher:      fetcher,
		defaultAppID: defaultAppID,
		logger:       logger.With(slog.String("handler", "inventory")),
	}
}

type inventoryResponse struct {
	SteamID   string        `json:"steamId"`
	AppID     int           `json:"appId"`
	ContextID int           `json:"contextId"`
	ItemCount int           `json:"itemCount"`
	Items     []domain.Item `json:"items"`
}

// Inventory returns the marketable items of an account without pricing them.
// GET /api/inventory?steamid=...&appId=...&contextId=...
func (h *InventoryHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	account := strings.TrimSpace(r.URL.Query().Get("steamid"))
	if account == "" {
		writeError(w, http.StatusBadRequest, "steamid query parameter is required")
		return
	}

	appID, err := parseAppID(r, h.defaultAppID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contextID := 0
	if raw := r.URL.Query().Get("contextId"); raw != "" {
		parsed, perr := strconv.Atoi(raw)
		if perr != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "contextId must be a positive integer")
			return
		}
		contextID = parsed
	}

	items, steamID, err := h.fetcher.Inventory(r.Context(), account, appID, contextID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "inventory fetch failed",
			slog.String("account", account),
			slog.Int("app_id", appID),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	if contextID <= 0 {
		contextID = domain.DefaultContextID
	}

	resp := inventoryResponse{
		SteamID:   steamID,
		AppID:     appID,
		ContextID: contextID,
		ItemCount: len(items),
		Items:     items,
	}
	if len(resp.Items) > maxInventoryItems {
		resp.Items = resp.Items[:maxInventoryItems]
	}

	writeJSON(w, http.StatusOK, resp)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mkarpenko/steamarb/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain error classes onto HTTP status codes. The
// account-shape and resolution failures are client errors; a private or
// empty inventory is a conflict with the account's state; everything else is
// an upstream or internal failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrUnsupportedApp):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrResolveFailed),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInventoryPrivate):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInventoryEmpty):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusBadGateway, "upstream rejected the request")
	default:
		writeError(w, http.StatusBadGateway, "upstream request failed")
	}
}

// parseLimit extracts a "limit" query parameter. Defaults to def, capped at
// 500.
func parseLimit(r *http.Request, def int) int {
	limit := def
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 500 {
		limit = 500
	}
	return limit
}

// parseAppID extracts an "appId" query parameter, defaulting to def.
func parseAppID(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("appId")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("appId must be an integer")
	}
	return n, nil
}

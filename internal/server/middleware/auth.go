package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

// Auth returns middleware that requires the configured API key on every
// request, either as `Authorization: Bearer <key>` or in the X-API-Key
// header. An empty key disables authentication entirely.
func Auth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-API-Key")
			if token == "" {
				if auth := r.Header.Get("Authorization"); len(auth) > len(bearerPrefix) &&
					strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
					token = auth[len(bearerPrefix):]
				}
			}
			token = strings.TrimSpace(token)

			if token == "" {
				rejectUnauthorized(w, "missing API key")
				return
			}
			// Constant-time comparison.
			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				rejectUnauthorized(w, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

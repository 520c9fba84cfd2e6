package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/geolens/geolens/internal/errors"
)

// Auth enforces an optional bearer token. An empty token disables the check
// entirely; health, version, and metrics endpoints are always open.
func Auth(token string) func(http.Handler) http.Handler {
	token = strings.TrimSpace(token)

	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health", "/version", "/metrics":
				next.ServeHTTP(w, r)
				return
			}

			presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				writeUnauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	response := ErrorResponse{
		Error: ErrorDetail{
			Code:      apperrors.CodeUnauthorized,
			Message:   "Authentication required",
			RequestID: GetRequestID(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(response)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/geolens/geolens/internal/errors"
)

// HealthChecker defines interface for health checkable components.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// HealthResponse represents the aggregate health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health, running the registered checkers under a bounded
// deadline.
func Health(version string, checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := make(map[string]string, len(checkers))
		healthy := true
		for name, checker := range checkers {
			if err := checker.CheckHealth(ctx); err != nil {
				checks[name] = "unhealthy"
				healthy = false
			} else {
				checks[name] = "healthy"
			}
		}

		if !healthy {
			respondWithError(w, r, apperrors.NewInternal("health check failed"))
			return
		}

		respondJSON(w, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Version:   version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}

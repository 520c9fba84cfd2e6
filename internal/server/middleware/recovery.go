package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/observability"
)

// Recovery middleware recovers from panics, records the panic metric, and
// returns a structured internal error. The stack trace goes to the log only.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				metrics.RecordPanic()

				observability.Logger().Error("panic recovered",
					zap.Any("panic", recovered),
					zap.String("path", r.URL.Path),
					zap.String("requestID", GetRequestID(r.Context())),
					zap.String("stack", string(debug.Stack())),
				)

				writePanicResponse(w, r, fmt.Sprintf("panic: %v", recovered))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the service-wide error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writePanicResponse writes the envelope directly to avoid a handlers import cycle.
func writePanicResponse(w http.ResponseWriter, r *http.Request, message string) {
	response := ErrorResponse{
		Error: ErrorDetail{
			Code:      apperrors.CodeInternal,
			Message:   message,
			RequestID: GetRequestID(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(response)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/observability"
	servermw "github.com/geolens/geolens/internal/server/middleware"
)

var defaultHTTPErrorResponder = func(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.Ensure(err)
	metrics.RecordError(appErr.Code)

	if appErr.Err != nil {
		observability.Logger().Error("request failed",
			zap.String("code", appErr.Code),
			zap.String("path", r.URL.Path),
			zap.String("requestID", servermw.GetRequestID(r.Context())),
			zap.Error(appErr.Err),
		)
	}

	response := servermw.ErrorResponse{
		Error: servermw.ErrorDetail{
			Code:      appErr.Code,
			Message:   appErr.Message,
			RequestID: servermw.GetRequestID(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.HTTPStatus(appErr))
	_ = json.NewEncoder(w).Encode(response)
}

var httpErrorResponder = defaultHTTPErrorResponder

// SetHTTPErrorResponder allows the server package to inject the centralized error handler.
func SetHTTPErrorResponder(responder func(http.ResponseWriter, *http.Request, error)) {
	if responder == nil {
		httpErrorResponder = defaultHTTPErrorResponder
		return
	}
	httpErrorResponder = responder
}

// ResetHTTPErrorResponder restores the default responder (useful for tests).
func ResetHTTPErrorResponder() {
	httpErrorResponder = defaultHTTPErrorResponder
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/geolens/geolens/internal/errors"
	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/observability"
	servermw "github.com/geolens/geolens/internal/server/middleware"
)

// HandleError is the central responder for all handler errors. It records the
// error metric, logs the cause when one is attached, and writes the envelope
// with the status mapped from the error code.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
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

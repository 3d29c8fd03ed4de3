package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"canvasd/internal/codec"
	"canvasd/internal/domain"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}

// statusFor maps a service error to an HTTP status and a short message
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCanvasNotFound), errors.Is(err, domain.ErrNodeNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrCanvasClosed):
		return http.StatusGone, "Canvas closed"
	case errors.Is(err, domain.ErrGestureActive):
		return http.StatusConflict, "Drag already active"
	case errors.Is(err, domain.ErrCanvasLimit):
		return http.StatusConflict, "Canvas limit reached"
	case errors.Is(err, domain.ErrUnknownEventKind), errors.Is(err, codec.ErrUnsupportedFormat):
		return http.StatusBadRequest, "Invalid request"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

// writeServiceError replies with the status mapped from err. Unexpected
// errors are logged.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("op", op), zap.Error(err))
	}
	writeError(w, msg, err.Error(), status)
}

// Package http exposes the greeting service over REST. Routing, JSON
// serialization, status mapping, and authentication live here; business
// rules stay in the services.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/greetingws/internal/common"
	"github.com/dmitrijs2005/greetingws/internal/logging"
)

// ErrorCode identifies the failure class in error payloads.
type ErrorCode string

const (
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrorCodeConflict       ErrorCode = "CONFLICT"
	ErrorCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrorCodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Status    string    `json:"status"`
	ErrorCode ErrorCode `json:"error_code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorHandler maps service errors onto HTTP responses.
type ErrorHandler struct {
	logger logging.Logger
}

func NewErrorHandler(l logging.Logger) *ErrorHandler {
	return &ErrorHandler{logger: l.With("module", "http_errors")}
}

// HandleError writes the response matching err's error class. Internal
// errors are logged with detail but answered with a generic message.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		message = "internal error"
	}

	h.WriteError(w, r, status, code, message)
}

// WriteError writes an ErrorResponse with the given status and code.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Status:    http.StatusText(status),
		ErrorCode: code,
		Message:   message,
		RequestID: w.Header().Get(requestIDHeader),
	})
}

func classify(err error) (int, ErrorCode) {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorMissingIdentity):
		return http.StatusBadRequest, ErrorCodeInvalidRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, ErrorCodeNotFound
	case errors.Is(err, common.ErrVersionConflict):
		return http.StatusConflict, ErrorCodeConflict
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, ErrorCodeUnauthorized
	default:
		return http.StatusInternalServerError, ErrorCodeInternalError
	}
}

package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/pkg/logger"
)

// maxJSONBody bounds JSON request bodies; file uploads have their own limit.
const maxJSONBody = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// DataResponse is the envelope for single resources and plain lists.
type DataResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ListResponse is the envelope for filtered collections.
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response with the same shape as AppError responses.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	errType := errors.ErrorTypeInternal
	switch {
	case status == http.StatusNotFound:
		errType = errors.ErrorTypeNotFound
	case status == http.StatusConflict:
		errType = errors.ErrorTypeConflict
	case status >= 400 && status < 500:
		errType = errors.ErrorTypeValidation
	}
	h.WriteJSON(w, status, errors.Response{Error: &errors.AppError{
		Type:       errType,
		Code:       errors.ErrorCode(fmt.Sprintf("HTTP_%d", status)),
		Message:    message,
		StatusCode: status,
	}})
}

// HandleServiceError renders AppErrors with their own status and hides
// everything else behind a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		h.Logger.Error("unhandled service error", "error", err)
		appErr = errors.NewInternalError("internal server error", err)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("service failure", "error", appErr, "code", appErr.Code)
	}
	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads a JSON body into dst, rejecting malformed input with a validation error.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid request body: %v", err), errors.ErrCodeValidationFailed)
	}
	return nil
}

// ReadBody returns the raw JSON body, used for merge-patch updates.
func (h *BaseHandler) ReadBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return nil, errors.NewValidationError("could not read request body", errors.ErrCodeValidationFailed)
	}
	if !json.Valid(body) {
		return nil, errors.NewValidationError("request body must be valid JSON", errors.ErrCodeValidationFailed)
	}
	return body, nil
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

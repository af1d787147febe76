package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInvalidState ErrorType = "INVALID_STATE"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidEnum      ErrorCode = "INVALID_VALUE"
	ErrCodeInvalidPatch     ErrorCode = "INVALID_PATCH"
	ErrCodeInvalidUpload    ErrorCode = "INVALID_UPLOAD"

	ErrCodeEquipmentNotFound   ErrorCode = "EQUIPMENT_NOT_FOUND"
	ErrCodeDuplicateAssetTag   ErrorCode = "DUPLICATE_ASSET_TAG"
	ErrCodeEquipmentReferenced ErrorCode = "EQUIPMENT_REFERENCED"

	ErrCodeAssignmentNotFound     ErrorCode = "ASSIGNMENT_NOT_FOUND"
	ErrCodeActiveAssignmentExists ErrorCode = "ACTIVE_ASSIGNMENT_EXISTS"
	ErrCodeAssignmentNotActive    ErrorCode = "ASSIGNMENT_NOT_ACTIVE"
	ErrCodeInvalidTransition      ErrorCode = "INVALID_STATUS_TRANSITION"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeUserReferenced ErrorCode = "USER_REFERENCED"

	ErrCodeAccessoryNotFound ErrorCode = "ACCESSORY_NOT_FOUND"
	ErrCodeDocumentNotFound  ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeReportNotFound    ErrorCode = "REPORT_NOT_FOUND"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewInvalidStateError reports an operation that is well formed but not
// allowed for the current lifecycle state of the target.
func NewInvalidStateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidState,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Sentinels are shared values; never mutate them with WithCause or WithDetails.
var (
	ErrEquipmentNotFound  = NewNotFoundError("Equipment not found", ErrCodeEquipmentNotFound)
	ErrAssignmentNotFound = NewNotFoundError("Assignment not found", ErrCodeAssignmentNotFound)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrAccessoryNotFound  = NewNotFoundError("Accessory not found", ErrCodeAccessoryNotFound)
	ErrDocumentNotFound   = NewNotFoundError("Document not found", ErrCodeDocumentNotFound)
	ErrReportNotFound     = NewNotFoundError("Report not found", ErrCodeReportNotFound)

	ErrActiveAssignmentExists = NewConflictError("Equipment already has an active assignment", ErrCodeActiveAssignmentExists)
	ErrAssignmentNotActive    = NewInvalidStateError("Assignment is not active", ErrCodeAssignmentNotActive)
	ErrDuplicateAssetTag      = NewConflictError("An equipment with this asset tag already exists", ErrCodeDuplicateAssetTag)
	ErrEquipmentReferenced    = NewConflictError("Equipment is referenced by assignments or accessories", ErrCodeEquipmentReferenced)
	ErrDuplicateEmail         = NewConflictError("A user with this email already exists", ErrCodeDuplicateEmail)
	ErrUserReferenced         = NewConflictError("User has assignments and cannot be deleted", ErrCodeUserReferenced)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

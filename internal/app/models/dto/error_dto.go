package dto

import (
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeInternalServer   ErrorCode = "SRV_001"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode   `json:"code" example:"VAL_001"`
	Message string      `json:"message" example:"Invalid student ID"`
	Field   string      `json:"field,omitempty" example:"age"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the envelope used for malformed requests.
// NotFound and processing failures use plain bodies instead.
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

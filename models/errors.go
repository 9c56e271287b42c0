package models

import (
	"errors"
	"fmt"
)

// Error codes used in records, API responses and internal error handling.
const (
	// Primary page fetch failures (FetchError).
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeFetchTimeout = "FETCH_TIMEOUT"
	ErrCodeFetchStatus  = "FETCH_BAD_STATUS"
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Per-link probe failures (LinkCheckError).
	ErrCodeLinkCheck = "LINK_CHECK_FAILED"

	// API access failures.
	ErrCodeUnauthorized = "UNAUTHORIZED"

	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorDetail is the serialisable form of an AuditError.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AuditError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type AuditError struct {
	Code    string
	Message string

	// StatusCode is the HTTP status that caused the failure, if any.
	StatusCode int

	Err error // wrapped original error
}

func (e *AuditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

// NewAuditError creates a new AuditError.
func NewAuditError(code, message string, err error) *AuditError {
	return &AuditError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to its serialisable form.
func (e *AuditError) ToDetail() *ErrorDetail {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return &ErrorDetail{Code: e.Code, Message: msg}
}

// IsFetchError reports whether err is (or wraps) a primary fetch failure.
func IsFetchError(err error) bool {
	var ae *AuditError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.Code {
	case ErrCodeFetchFailed, ErrCodeFetchTimeout, ErrCodeFetchStatus, ErrCodeInvalidInput:
		return true
	}
	return false
}

// IsLinkCheckError reports whether err is (or wraps) a link probe failure.
func IsLinkCheckError(err error) bool {
	var ae *AuditError
	return errors.As(err, &ae) && ae.Code == ErrCodeLinkCheck
}

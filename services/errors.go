package services

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes service failures so handlers can map them to HTTP
// statuses without string matching.
type ErrorCode string

const (
	// CodeValidation marks bad caller input. Never retried.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeNotFound marks a missing or unusable record, e.g. the built-in
	// program failing its day-1 verification.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeStore marks a failed record-store read or write. Retryable: all
	// affected writes are idempotent upserts on natural keys.
	CodeStore ErrorCode = "STORE"
)

// ServiceError is the typed error carried across the service boundary.
// Stage names the pipeline step that failed (close-day reports which of its
// ordered writes broke).
type ServiceError struct {
	Code    ErrorCode
	Stage   string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func validationErr(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func storeErr(stage string, err error) *ServiceError {
	msg := "unknown"
	if err != nil {
		msg = err.Error()
	}
	return &ServiceError{Code: CodeStore, Stage: stage, Message: msg, Err: err}
}

// IsValidation reports whether err is caller-input rejection.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

func hasCode(err error, code ErrorCode) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

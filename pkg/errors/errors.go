package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrCatalogInvalid ErrorCode = "CATALOG_INVALID"

	// Domain errors
	ErrDomainNotFound    ErrorCode = "DOMAIN_NOT_FOUND"
	ErrFamilyUnsupported ErrorCode = "FAMILY_UNSUPPORTED"

	// Import errors
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrSourceBroken   ErrorCode = "SOURCE_BROKEN"
	ErrFileCopy       ErrorCode = "FILE_COPY"
	ErrSymlinkCreate  ErrorCode = "SYMLINK_CREATE"

	// Package errors
	ErrPackageListMissing ErrorCode = "PACKAGE_LIST_MISSING"
	ErrCommandRun         ErrorCode = "COMMAND_RUN"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// KeepError represents a structured error with code and details
type KeepError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *KeepError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *KeepError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *KeepError) Is(target error) bool {
	var targetErr *KeepError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new KeepError with the given code and message
func New(code ErrorCode, message string) *KeepError {
	return &KeepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new KeepError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *KeepError {
	return &KeepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a KeepError
func Wrap(err error, code ErrorCode, message string) *KeepError {
	if err == nil {
		return nil
	}
	return &KeepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *KeepError {
	if err == nil {
		return nil
	}
	return &KeepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *KeepError) WithDetail(key string, value interface{}) *KeepError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var keepErr *KeepError
	if errors.As(err, &keepErr) {
		return keepErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a KeepError
func GetErrorCode(err error) ErrorCode {
	var keepErr *KeepError
	if errors.As(err, &keepErr) {
		return keepErr.Code
	}
	return ErrUnknown
}

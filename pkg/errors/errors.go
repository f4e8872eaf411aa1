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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Structural errors raised while building a tree
	ErrDuplicateItem ErrorCode = "DUPLICATE_ITEM"
	ErrInvalidParent ErrorCode = "INVALID_PARENT"
	ErrMissingItem   ErrorCode = "MISSING_ITEM"
	ErrCycle         ErrorCode = "CYCLE"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Source errors
	ErrSourceRead  ErrorCode = "SOURCE_READ"
	ErrSourceParse ErrorCode = "SOURCE_PARSE"

	// Store errors
	ErrStoreOpen  ErrorCode = "STORE_OPEN"
	ErrStoreQuery ErrorCode = "STORE_QUERY"
	ErrStoreWrite ErrorCode = "STORE_WRITE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// MarktreeError represents a structured error with code and details
type MarktreeError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Wrapped error
}

// Error implements the error interface
func (e *MarktreeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MarktreeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MarktreeError) Is(target error) bool {
	var targetErr *MarktreeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MarktreeError with the given code and message
func New(code ErrorCode, message string) *MarktreeError {
	return &MarktreeError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
}

// Newf creates a new MarktreeError with a formatted message
func Newf(code ErrorCode, format string, args ...any) *MarktreeError {
	return &MarktreeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]any),
	}
}

// Wrap wraps an existing error with a MarktreeError
func Wrap(err error, code ErrorCode, message string) *MarktreeError {
	if err == nil {
		return nil
	}
	return &MarktreeError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...any) *MarktreeError {
	if err == nil {
		return nil
	}
	return &MarktreeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]any),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MarktreeError) WithDetail(key string, value any) *MarktreeError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *MarktreeError) WithDetails(details map[string]any) *MarktreeError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mtErr *MarktreeError
	if errors.As(err, &mtErr) {
		return mtErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MarktreeError
func GetErrorCode(err error) ErrorCode {
	var mtErr *MarktreeError
	if errors.As(err, &mtErr) {
		return mtErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a MarktreeError
func GetErrorDetails(err error) map[string]any {
	var mtErr *MarktreeError
	if errors.As(err, &mtErr) {
		return mtErr.Details
	}
	return nil
}

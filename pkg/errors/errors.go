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
	ErrContract     ErrorCode = "CONTRACT"
	ErrNoFiles      ErrorCode = "NO_FILES"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileRead     ErrorCode = "FILE_READ"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
	ErrLabel        ErrorCode = "LABEL"

	// Workflow errors
	ErrStage          ErrorCode = "STAGE"
	ErrEditorNotFound ErrorCode = "EDITOR_NOT_FOUND"
	ErrEditorLaunch   ErrorCode = "EDITOR_LAUNCH"
	ErrTrim           ErrorCode = "TRIM"
	ErrInstall        ErrorCode = "INSTALL"
)

// EditError represents a structured error with code and details
type EditError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EditError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EditError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *EditError) Is(target error) bool {
	var targetErr *EditError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new EditError with the given code and message
func New(code ErrorCode, message string) *EditError {
	return &EditError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EditError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EditError {
	return &EditError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EditError
func Wrap(err error, code ErrorCode, message string) *EditError {
	if err == nil {
		return nil
	}
	return &EditError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EditError {
	if err == nil {
		return nil
	}
	return &EditError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *EditError) WithDetail(key string, value interface{}) *EditError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var editErr *EditError
	if errors.As(err, &editErr) {
		return editErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an EditError
func GetErrorCode(err error) ErrorCode {
	var editErr *EditError
	if errors.As(err, &editErr) {
		return editErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an EditError
func GetErrorDetails(err error) map[string]interface{} {
	var editErr *EditError
	if errors.As(err, &editErr) {
		return editErr.Details
	}
	return nil
}

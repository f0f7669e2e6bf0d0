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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Feature errors
	ErrFeatureNotFound ErrorCode = "FEATURE_NOT_FOUND"
	ErrFeatureInvalid  ErrorCode = "FEATURE_INVALID"
	ErrAttributeParse  ErrorCode = "ATTRIBUTE_PARSE"

	// Provisioning errors
	ErrProvisionFailed ErrorCode = "PROVISION_FAILED"
	ErrCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCloneFailed     ErrorCode = "CLONE_FAILED"

	// Download/archive errors
	ErrDownloadFailed  ErrorCode = "DOWNLOAD_FAILED"
	ErrArchiveMissing  ErrorCode = "ARCHIVE_MISSING"
	ErrArchiveInspect  ErrorCode = "ARCHIVE_INSPECT"
	ErrArchiveExtract  ErrorCode = "ARCHIVE_EXTRACT"
	ErrCacheAccess     ErrorCode = "CACHE_ACCESS"
	ErrDestinationPath ErrorCode = "DESTINATION_PATH"

	// Registry errors
	ErrRegistryRead  ErrorCode = "REGISTRY_READ"
	ErrRegistryWrite ErrorCode = "REGISTRY_WRITE"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrOwnership     ErrorCode = "OWNERSHIP"
)

// DeskforgeError represents a structured error with code and details
type DeskforgeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DeskforgeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DeskforgeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DeskforgeError) Is(target error) bool {
	var targetErr *DeskforgeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DeskforgeError with the given code and message
func New(code ErrorCode, message string) *DeskforgeError {
	return &DeskforgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DeskforgeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DeskforgeError {
	return &DeskforgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DeskforgeError
func Wrap(err error, code ErrorCode, message string) *DeskforgeError {
	if err == nil {
		return nil
	}
	return &DeskforgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DeskforgeError {
	if err == nil {
		return nil
	}
	return &DeskforgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DeskforgeError) WithDetail(key string, value interface{}) *DeskforgeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetCode extracts the error code from an error, returning ErrUnknown
// for errors that are not DeskforgeErrors
func GetCode(err error) ErrorCode {
	var dfErr *DeskforgeError
	if errors.As(err, &dfErr) {
		return dfErr.Code
	}
	return ErrUnknown
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dfErr *DeskforgeError
	if errors.As(err, &dfErr) {
		return dfErr.Code == code
	}
	return false
}

// As is a convenience re-export of errors.As
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsAny reports whether the error carries any of the given codes
func IsAny(err error, codes ...ErrorCode) bool {
	for _, code := range codes {
		if IsErrorCode(err, code) {
			return true
		}
	}
	return false
}

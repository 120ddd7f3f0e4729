package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the scopefs query layer
type ErrorType string

const (
	// Path confinement errors
	ErrorTypeInvalidPath ErrorType = "invalid_path"

	// Filesystem shape errors
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeNotADirectory ErrorType = "not_a_directory"
	ErrorTypeNotAFile      ErrorType = "not_a_file"
	ErrorTypeFileTooLarge  ErrorType = "file_too_large"

	// Wrapped lower-level I/O failures (permission denied, read errors)
	ErrorTypeIO ErrorType = "io"
)

// PathError represents a rejected client-supplied path: absolute, or
// containing a parent-traversal segment after normalization.
type PathError struct {
	Type      ErrorType
	Path      string
	Reason    string
	Timestamp time.Time
}

// NewPathError creates a new path confinement error
func NewPathError(path, reason string) *PathError {
	return &PathError{
		Type:      ErrorTypeInvalidPath,
		Path:      path,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// QueryError represents a failed query operation against a resolved path.
// Type distinguishes the confinement layer's failure modes (not found,
// wrong kind, too large) from wrapped I/O errors.
type QueryError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewNotFoundError reports that a resolved path does not exist
func NewNotFoundError(op, path string) *QueryError {
	return newQueryError(ErrorTypeNotFound, op, path, nil)
}

// NewNotADirectoryError reports a file where a directory was required
func NewNotADirectoryError(op, path string) *QueryError {
	return newQueryError(ErrorTypeNotADirectory, op, path, nil)
}

// NewNotAFileError reports a directory where a file was required
func NewNotAFileError(op, path string) *QueryError {
	return newQueryError(ErrorTypeNotAFile, op, path, nil)
}

// NewFileTooLargeError reports a file whose size exceeds the read limit
func NewFileTooLargeError(op, path string, size, limit int64) *QueryError {
	return newQueryError(ErrorTypeFileTooLarge, op, path,
		fmt.Errorf("size %d exceeds limit %d", size, limit))
}

// NewIOError wraps a lower-level filesystem failure, preserving its message
func NewIOError(op, path string, err error) *QueryError {
	return newQueryError(ErrorTypeIO, op, path, err)
}

func newQueryError(t ErrorType, op, path string, err error) *QueryError {
	return &QueryError{
		Type:       t,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *QueryError) Error() string {
	switch e.Type {
	case ErrorTypeNotFound:
		return fmt.Sprintf("%s failed: %s does not exist", e.Operation, e.Path)
	case ErrorTypeNotADirectory:
		return fmt.Sprintf("%s failed: %s is not a directory", e.Operation, e.Path)
	case ErrorTypeNotAFile:
		return fmt.Sprintf("%s failed: %s is not a file", e.Operation, e.Path)
	default:
		return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.Path, e.Underlying)
	}
}

// Unwrap returns the underlying error for errors.Is/As
func (e *QueryError) Unwrap() error {
	return e.Underlying
}

// ConfigError reports an invalid configuration section.
type ConfigError struct {
	Section    string
	Underlying error
}

// NewConfigError wraps a validation failure with its config section
func NewConfigError(section string, err error) *ConfigError {
	return &ConfigError{Section: section, Underlying: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config section %q: %v", e.Section, e.Underlying)
}

func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// TypeOf extracts the ErrorType from any error produced by this package,
// or "" for foreign errors.
func TypeOf(err error) ErrorType {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Type
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Type
	}
	return ""
}

// IsInvalidPath checks if the error is a path confinement rejection
func IsInvalidPath(err error) bool {
	return TypeOf(err) == ErrorTypeInvalidPath
}

// IsNotFound checks if the error reports a missing path
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsFileTooLarge checks if the error reports an oversized file
func IsFileTooLarge(err error) bool {
	return TypeOf(err) == ErrorTypeFileTooLarge
}

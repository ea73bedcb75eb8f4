// Package errors provides structured error types for schedule reads.
// All errors include a category, code, message, and retryable flag so callers
// can tell fatal decode failures apart from source access problems.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by the stage of a read that produced them.
type ErrorCategory string

const (
	ErrCategoryFormat    ErrorCategory = "FORMAT"
	ErrCategoryDecode    ErrorCategory = "DECODE"
	ErrCategorySource    ErrorCategory = "SOURCE"
	ErrCategoryStructure ErrorCategory = "STRUCTURE"
	ErrCategoryConfig    ErrorCategory = "CONFIG"
	ErrCategoryInternal  ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Format codes
	CodeVersionUnsupported = "VERSION_UNSUPPORTED"
	CodeVersionMissing     = "VERSION_MISSING"
	CodeUnknownInput       = "UNKNOWN_INPUT"

	// Decode codes
	CodeFieldDecode = "FIELD_DECODE"

	// Source codes
	CodeAccessFailed   = "ACCESS_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"
	CodeDownloadFailed = "DOWNLOAD_FAILED"

	// Structure codes
	CodeUnresolvedReference = "UNRESOLVED_REFERENCE"

	// Config codes
	CodeInvalidConfig = "INVALID_CONFIG"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// ReadError is the structured error type used throughout the reader.
type ReadError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *ReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *ReadError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *ReadError) Is(target error) bool {
	var t *ReadError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new ReadError.
func New(category ErrorCategory, code, message string) *ReadError {
	return &ReadError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new ReadError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *ReadError {
	return &ReadError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *ReadError) WithDetails(details map[string]interface{}) *ReadError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var re *ReadError
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a ReadError.
func GetCategory(err error) ErrorCategory {
	var re *ReadError
	if errors.As(err, &re) {
		return re.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a ReadError.
func GetCode(err error) string {
	var re *ReadError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// isRetryable reports whether an operation failing with this code may succeed
// when repeated. Only transient storage failures qualify; decode and format
// failures are deterministic.
func isRetryable(category ErrorCategory, code string) bool {
	switch {
	case category == ErrCategorySource && code == CodeDownloadFailed:
		return true
	case category == ErrCategorySource && code == CodeAccessFailed:
		return true
	default:
		return false
	}
}

// Convenience constructors for common errors.

func NewVersionUnsupported(version int) *ReadError {
	return New(ErrCategoryFormat, CodeVersionUnsupported,
		fmt.Sprintf("unsupported file format version %d", version)).
		WithDetails(map[string]interface{}{"version": version})
}

func NewVersionMissing(message string) *ReadError {
	return New(ErrCategoryFormat, CodeVersionMissing, message)
}

// NewFieldDecodeError reports a token that could not be decoded as the
// declared column type.
func NewFieldDecodeError(table, column, raw, columnType string, cause error) *ReadError {
	msg := fmt.Sprintf("failed to parse %s.%s (data=%q, type=%s)", table, column, raw, columnType)
	return Wrap(ErrCategoryDecode, CodeFieldDecode, msg, cause).WithDetails(map[string]interface{}{
		"table":  table,
		"column": column,
		"raw":    raw,
		"type":   columnType,
	})
}

func NewSourceError(code, message string, cause error) *ReadError {
	return Wrap(ErrCategorySource, code, message, cause)
}

func NewStructureError(message string) *ReadError {
	return New(ErrCategoryStructure, CodeUnresolvedReference, message)
}

func NewConfigError(message string) *ReadError {
	return New(ErrCategoryConfig, CodeInvalidConfig, message)
}

func NewInternalError(message string, cause error) *ReadError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}

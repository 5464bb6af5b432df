package errorwrapper

import (
	"errors"
	"fmt"
)

// Common error types used across the application
var (
	// ErrInvalidInput indicates invalid user input
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")
	// ErrBackendUnavailable indicates the capture backend could not serve a request
	ErrBackendUnavailable = errors.New("capture backend unavailable")
	// ErrStorageFull indicates the backing store rejected a write for capacity reasons
	ErrStorageFull = errors.New("storage full")
	// ErrCorruptData indicates persisted data could not be decoded
	ErrCorruptData = errors.New("corrupt data")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// CaptureError is the terminal failure of a screenshot capture after all retry
// attempts were exhausted. It wraps the last backend error.
type CaptureError struct {
	URL      string
	Attempts int
	Wrapped  error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture failed for URL '%s' after %d attempt(s): %v", e.URL, e.Attempts, e.Wrapped)
}

func (e *CaptureError) Unwrap() error {
	return e.Wrapped
}

// NewCaptureError creates a new capture error
func NewCaptureError(url string, attempts int, wrapped error) *CaptureError {
	return &CaptureError{
		URL:      url,
		Attempts: attempts,
		Wrapped:  wrapped,
	}
}

// DimensionMismatchError indicates two screenshots with different pixel
// dimensions were submitted for comparison.
type DimensionMismatchError struct {
	BaselineWidth    int
	BaselineHeight   int
	ComparisonWidth  int
	ComparisonHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: baseline %dx%d vs comparison %dx%d",
		e.BaselineWidth, e.BaselineHeight, e.ComparisonWidth, e.ComparisonHeight)
}

func (e *DimensionMismatchError) Unwrap() error {
	return ErrInvalidInput
}

// NewDimensionMismatchError creates a new dimension mismatch error
func NewDimensionMismatchError(bw, bh, cw, ch int) *DimensionMismatchError {
	return &DimensionMismatchError{
		BaselineWidth:    bw,
		BaselineHeight:   bh,
		ComparisonWidth:  cw,
		ComparisonHeight: ch,
	}
}

// StorageError represents a failure of a storage engine operation on a
// specific collection.
type StorageError struct {
	Collection string
	Operation  string
	Wrapped    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s on collection '%s': %v", e.Operation, e.Collection, e.Wrapped)
}

func (e *StorageError) Unwrap() error {
	return e.Wrapped
}

// NewStorageError creates a new storage error
func NewStorageError(collection, operation string, wrapped error) *StorageError {
	return &StorageError{
		Collection: collection,
		Operation:  operation,
		Wrapped:    wrapped,
	}
}

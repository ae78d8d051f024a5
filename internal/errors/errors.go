// Package errors provides a lightweight structured error type (IndexerError)
// for category-based classification across the indexing pipeline and CLI.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of an indexer error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig ErrorCategory = "config"

	// The external asset parser failed to produce a valid object graph
	CategoryProvider ErrorCategory = "provider"

	// Site generation and output errors
	CategoryFileSystem ErrorCategory = "filesystem"

	// Invariant violations: a zero or out-of-range index reference reaching
	// the resolver. These indicate a scanner or provider bug, not bad input,
	// and must never be silently absorbed.
	CategoryContract ErrorCategory = "contract"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// IndexerError is a structured error with category, severity, and context
type IndexerError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for IndexerError
type ContextFields map[string]any

// Error implements the error interface
func (e *IndexerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *IndexerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *IndexerError) WithContext(key string, value any) *IndexerError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new IndexerError
func New(category ErrorCategory, severity ErrorSeverity, message string) *IndexerError {
	return &IndexerError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new IndexerError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *IndexerError {
	return &IndexerError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// Contract creates a fatal contract-violation error. Reaching one of these
// means the reference scanner or the graph provider misbehaved; callers abort
// the current record's render rather than emitting a broken link.
func Contract(message string) *IndexerError {
	return &IndexerError{
		Category: CategoryContract,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// ConfigError creates a per-path configuration error; the run continues with
// remaining paths.
func ConfigError(message string) *IndexerError {
	return &IndexerError{
		Category: CategoryConfig,
		Severity: SeverityError,
		Message:  message,
	}
}

// ProviderError wraps a parser failure; the affected file is skipped entirely.
func ProviderError(err error, message string) *IndexerError {
	return &IndexerError{
		Category: CategoryProvider,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var ie *IndexerError
	if errors.As(err, &ie) {
		return ie.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if it is not an IndexerError
func GetCategory(err error) ErrorCategory {
	var ie *IndexerError
	if errors.As(err, &ie) {
		return ie.Category
	}
	return CategoryInternal
}

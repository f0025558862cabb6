// Package errors provides a lightweight structured error type (SitemapError)
// for category-based classification in the build pipeline and the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a sitemap error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryTemplate   ErrorCategory = "template"
	CategoryValidation ErrorCategory = "validation"

	// Build and output errors
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Side channels that run after the artifact is written
	CategoryHistory ErrorCategory = "history"
	CategoryNotify  ErrorCategory = "notify"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// SitemapError is a structured error with category, severity and context
type SitemapError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SitemapError
type ContextFields map[string]any

// Error implements the error interface
func (e *SitemapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for errors.Is / errors.As
func (e *SitemapError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SitemapError) WithContext(key string, value any) *SitemapError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SitemapError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SitemapError {
	return &SitemapError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SitemapError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SitemapError {
	return &SitemapError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the outermost SitemapError in err's chain.
func As(err error) (*SitemapError, bool) {
	var se *SitemapError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCategory checks if an error (or anything it wraps) belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := As(err); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a SitemapError
func GetCategory(err error) ErrorCategory {
	if se, ok := As(err); ok {
		return se.Category
	}
	return CategoryInternal
}

// IsFatal reports whether err must abort the build.
// Plain errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := As(err); ok {
		return se.Severity == SeverityFatal
	}
	return true
}

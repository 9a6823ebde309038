// Package errors defines the three-member error taxonomy (spec.md §7):
// ParseFailedError, InvalidSourceError, and InternalError. Only
// ParseFailedError wraps an underlying error and supports errors.Is/As via
// Unwrap; the other two carry a reason string.
package errors

import (
	"fmt"
	"time"
)

// ParseFailedError reports that the grammar rejected a file's source.
type ParseFailedError struct {
	Path       string
	Language   string
	Underlying error
	Timestamp  time.Time
}

// NewParseFailedError wraps a grammar error with file context.
func NewParseFailedError(path, language string, err error) *ParseFailedError {
	return &ParseFailedError{
		Path:       path,
		Language:   language,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ParseFailedError) Error() string {
	return fmt.Sprintf("parse failed for %s (%s): %v", e.Path, e.Language, e.Underlying)
}

func (e *ParseFailedError) Unwrap() error {
	return e.Underlying
}

// InvalidSourceError reports non-UTF-8 or otherwise unreadable content.
type InvalidSourceError struct {
	Path      string
	Reason    string
	Timestamp time.Time
}

// NewInvalidSourceError reports why a file's bytes could not be treated
// as source text.
func NewInvalidSourceError(path, reason string) *InvalidSourceError {
	return &InvalidSourceError{
		Path:      path,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source %s: %s", e.Path, e.Reason)
}

// InternalError reports an extractor invariant violation. Per spec.md
// §4.7 this should be unreachable in normal operation: malformed
// subtrees are skipped silently, never turned into an error.
type InternalError struct {
	Reason    string
	Timestamp time.Time
}

// NewInternalError wraps an unreachable-invariant failure.
func NewInternalError(reason string) *InternalError {
	return &InternalError{Reason: reason, Timestamp: time.Now()}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Reason)
}

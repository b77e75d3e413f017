package retrospect

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error type constants for classification
const (
	ErrTypeTimeout    = "timeout"
	ErrTypeDatabase   = "database"
	ErrTypeValidation = "validation"
	ErrTypeUnknown    = "unknown"
)

// ErrBatchTooLarge is returned by RunAnalysis when the fragment batch
// exceeds the configured maximum.
var ErrBatchTooLarge = errors.New("fragment batch exceeds maximum size")

// batchTooLargeError wraps ErrBatchTooLarge with the offending sizes.
func batchTooLargeError(got, max int) error {
	return fmt.Errorf("%w: got %d fragments, max %d", ErrBatchTooLarge, got, max)
}

// ClassifyError inspects an error and returns its type classification.
// This enables grouping errors by category in metrics and traces.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	errStrLower := strings.ToLower(err.Error())

	// Check for timeout errors
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(errStrLower, "timeout") || strings.Contains(errStrLower, "deadline exceeded") {
		return ErrTypeTimeout
	}

	// Check for database errors (SQLite specific)
	if strings.Contains(errStrLower, "sql") ||
		strings.Contains(errStrLower, "database") ||
		strings.Contains(errStrLower, "constraint") ||
		strings.Contains(errStrLower, "transaction") {
		return ErrTypeDatabase
	}

	// Check for validation errors
	if errors.Is(err, ErrBatchTooLarge) ||
		strings.Contains(errStrLower, "validation") ||
		strings.Contains(errStrLower, "invalid") ||
		strings.Contains(errStrLower, "required") ||
		strings.Contains(errStrLower, "cannot be empty") ||
		strings.Contains(errStrLower, "exceeds maximum") {
		return ErrTypeValidation
	}

	// Default to unknown
	return ErrTypeUnknown
}

package retrospect

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"deadline exceeded", context.DeadlineExceeded, ErrTypeTimeout},
		{"timeout message", errors.New("operation timeout after 30s"), ErrTypeTimeout},
		{"sql error", errors.New("sql: no rows in result set"), ErrTypeDatabase},
		{"constraint violation", errors.New("UNIQUE constraint failed: causal_chains.id"), ErrTypeDatabase},
		{"transaction failure", errors.New("cannot start a transaction within a transaction"), ErrTypeDatabase},
		{"batch too large", batchTooLargeError(600, 500), ErrTypeValidation},
		{"invalid input", errors.New("invalid fragment id"), ErrTypeValidation},
		{"unclassified", errors.New("something odd happened"), ErrTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("run analysis: %w", context.DeadlineExceeded)
	if got := ClassifyError(wrapped); got != ErrTypeTimeout {
		t.Errorf("wrapped deadline: got %q, want %q", got, ErrTypeTimeout)
	}

	wrapped = fmt.Errorf("validate batch: %w", ErrBatchTooLarge)
	if got := ClassifyError(wrapped); got != ErrTypeValidation {
		t.Errorf("wrapped batch error: got %q, want %q", got, ErrTypeValidation)
	}
}

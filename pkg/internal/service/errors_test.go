package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, outcomeSuccess},
		{"validation", &ValidationError{Reason: ReasonTypeNotAllowed}, outcomeValidationFailed},
		{"wrapped validation", fmt.Errorf("upload: %w", &ValidationError{Reason: ReasonSizeLimitExceeded}), outcomeValidationFailed},
		{"canceled", fmt.Errorf("upload: %w", context.Canceled), outcomeCanceled},
		{"deadline", fmt.Errorf("upload: %w", context.DeadlineExceeded), outcomeCanceled},
		{"upload failed", fmt.Errorf("%w: dial tcp", ErrUploadFailed), outcomeUploadFailed},
		{"persistence failed", fmt.Errorf("%w: constraint", ErrPersistenceFailed), outcomePersistenceFailed},
		{"other", errors.New("boom"), outcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	wrapped := fmt.Errorf("%w: write row", ErrPersistenceFailed)

	if errors.Is(wrapped, ErrUploadFailed) {
		t.Error("persistence failure matched the upload sentinel")
	}

	if !errors.Is(wrapped, ErrPersistenceFailed) {
		t.Error("wrapped persistence failure lost its sentinel")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Reason:   ReasonSizeLimitExceeded,
		FileName: "huge.bin",
		Limit:    "10485760",
		Got:      "20971520",
	}

	msg := err.Error()
	for _, want := range []string{"huge.bin", ReasonSizeLimitExceeded, "10485760"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

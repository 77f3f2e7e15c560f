package service

import (
	"context"
	"errors"
	"fmt"
)

// Validation failure reasons.
const (
	ReasonSizeLimitExceeded = "SizeLimitExceeded"
	ReasonTypeNotAllowed    = "TypeNotAllowed"
)

// ValidationError reports a candidate rejected before any I/O happened.
type ValidationError struct {
	Reason   string
	FileName string
	// Limit is the violated bound: max bytes for size failures, the
	// allowed pattern list (joined) for type failures.
	Limit string
	// Got is the offending value.
	Got string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %q: %s (limit %s, got %s)",
		e.FileName, e.Reason, e.Limit, e.Got)
}

// Pipeline sentinels. Wrap with %w and match with errors.Is so callers can
// distinguish an upload that never stored bytes from a persistence failure
// that left an orphaned blob behind.
var (
	// ErrUploadFailed marks a blob transfer failure; no partial state
	// remains.
	ErrUploadFailed = errors.New("upload failed")

	// ErrPersistenceFailed marks a metadata write failure after a
	// successful blob upload; the blob is orphaned and reported.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrNotFound marks a missing memory record.
	ErrNotFound = errors.New("memory not found")
)

// Outcome labels used for metrics and batch error classification.
const (
	outcomeSuccess           = "success"
	outcomeValidationFailed  = "validation_failed"
	outcomeUploadFailed      = "upload_failed"
	outcomePersistenceFailed = "persistence_failed"
	outcomeCanceled          = "canceled"
	outcomeError             = "error"
)

// classifyError maps a pipeline error to an outcome label.
func classifyError(err error) string {
	var ve *ValidationError

	switch {
	case err == nil:
		return outcomeSuccess
	case errors.As(err, &ve):
		return outcomeValidationFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	case errors.Is(err, ErrPersistenceFailed):
		return outcomePersistenceFailed
	case errors.Is(err, ErrUploadFailed):
		return outcomeUploadFailed
	default:
		return outcomeError
	}
}

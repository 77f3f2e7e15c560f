package service

import (
	"fmt"
	"strings"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
)

// ValidateCandidate checks a candidate against the plan tier's limits. It is
// pure policy: no I/O, runs before processing and upload. The size check
// runs before the type check, so an oversized file of a disallowed type
// reports the size violation.
func (s *MemoryService) ValidateCandidate(candidate types.UploadCandidate, tier configs.PlanTier) error {
	limits, err := s.cfg.TierLimitsFor(tier)
	if err != nil {
		// Unknown tier is a configuration error, not a user error.
		return fmt.Errorf("resolve tier limits: %w", err)
	}

	if candidate.SizeBytes > limits.MaxSizeBytes {
		return &ValidationError{
			Reason:   ReasonSizeLimitExceeded,
			FileName: candidate.FileName,
			Limit:    fmt.Sprintf("%d", limits.MaxSizeBytes),
			Got:      fmt.Sprintf("%d", candidate.SizeBytes),
		}
	}

	if !limits.Allows(candidate.ContentType) {
		return &ValidationError{
			Reason:   ReasonTypeNotAllowed,
			FileName: candidate.FileName,
			Limit:    strings.Join(limits.AllowedTypes, ","),
			Got:      candidate.ContentType,
		}
	}

	return nil
}

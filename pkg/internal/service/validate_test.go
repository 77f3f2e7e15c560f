package service

import (
	"errors"
	"testing"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
)

func testUploadConfig() configs.UploadConfig {
	return configs.UploadConfig{
		Tiers: map[configs.PlanTier]configs.TierLimits{
			configs.TierFree: {
				MaxSizeBytes: 10 << 20,
				AllowedTypes: []string{"image/*", "text/*"},
			},
			configs.TierPremium: {
				MaxSizeBytes: 100 << 20,
				AllowedTypes: []string{"*"},
			},
			configs.TierFamily: {
				MaxSizeBytes: 500 << 20,
				AllowedTypes: []string{"*"},
			},
		},
		Compression: configs.CompressionConfig{
			Enabled:   true,
			Quality:   0.8,
			MaxWidth:  1920,
			MaxHeight: 1080,
		},
		MaxConcurrent:  2,
		Source:         "mobile",
		DefaultTier:    configs.TierFree,
		OrphanGraceHrs: 24,
	}
}

func TestValidateCandidate(t *testing.T) {
	svc := &MemoryService{cfg: testUploadConfig()}

	tests := []struct {
		name       string
		tier       configs.PlanTier
		size       int64
		mime       string
		wantReason string
	}{
		{"free image within limit", configs.TierFree, 5 << 20, "image/png", ""},
		{"free text within limit", configs.TierFree, 1024, "text/plain", ""},
		{"free exactly at limit", configs.TierFree, 10 << 20, "image/jpeg", ""},
		{"free one byte over", configs.TierFree, 10<<20 + 1, "image/jpeg", ReasonSizeLimitExceeded},
		{"free video rejected", configs.TierFree, 1 << 20, "video/mp4", ReasonTypeNotAllowed},
		{"free pdf rejected", configs.TierFree, 1024, "application/pdf", ReasonTypeNotAllowed},
		{"premium video allowed", configs.TierPremium, 50 << 20, "video/mp4", ""},
		{"premium over limit", configs.TierPremium, 101 << 20, "video/mp4", ReasonSizeLimitExceeded},
		{"family large video allowed", configs.TierFamily, 400 << 20, "video/mp4", ""},
		{"family over limit", configs.TierFamily, 501 << 20, "application/zip", ReasonSizeLimitExceeded},
		{"zero byte file allowed", configs.TierFree, 0, "text/plain", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateCandidate(types.UploadCandidate{
				FileName:    "f",
				ContentType: tt.mime,
				SizeBytes:   tt.size,
			}, tt.tier)

			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %v is not a ValidationError", err)
			}

			if ve.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", ve.Reason, tt.wantReason)
			}
		})
	}
}

// An oversized file of a disallowed type reports the size violation: the
// size check runs first.
func TestValidateCandidateSizeCheckedFirst(t *testing.T) {
	svc := &MemoryService{cfg: testUploadConfig()}

	err := svc.ValidateCandidate(types.UploadCandidate{
		FileName:    "big.mp4",
		ContentType: "video/mp4",
		SizeBytes:   20 << 20,
	}, configs.TierFree)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error %v is not a ValidationError", err)
	}

	if ve.Reason != ReasonSizeLimitExceeded {
		t.Errorf("reason = %q, want %q", ve.Reason, ReasonSizeLimitExceeded)
	}
}

func TestValidateCandidateUnknownTier(t *testing.T) {
	svc := &MemoryService{cfg: testUploadConfig()}

	err := svc.ValidateCandidate(types.UploadCandidate{
		FileName:    "f.png",
		ContentType: "image/png",
		SizeBytes:   1024,
	}, configs.PlanTier("platinum"))

	if err == nil {
		t.Fatal("expected an error for an unknown tier")
	}

	// A config error, not a user-facing validation failure.
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Errorf("unknown tier produced a ValidationError: %v", err)
	}
}

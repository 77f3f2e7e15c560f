package configs

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PlanTier is a named service level gating upload size and type limits.
type PlanTier string

const (
	TierFree    PlanTier = "free"
	TierPremium PlanTier = "premium"
	TierFamily  PlanTier = "family"
)

const (
	mib = 1 << 20

	DefaultFreeMaxSizeBytes    = 10 * mib
	DefaultPremiumMaxSizeBytes = 100 * mib
	DefaultFamilyMaxSizeBytes  = 500 * mib

	DefaultCompressionQuality   = 0.8
	DefaultCompressionMaxWidth  = 1920
	DefaultCompressionMaxHeight = 1080

	DefaultBatchMaxConcurrent = 3
	DefaultUploadSource       = "mobile"
	// UploadSchemaVersion is stamped on every persisted record.
	UploadSchemaVersion = 2
)

// TierLimits is the per-tier upload policy. AllowedTypes are MIME patterns:
// "image/*" matches any type with prefix "image/", a literal "*" allows
// anything.
type TierLimits struct {
	MaxSizeBytes int64    `mapstructure:"max_size_bytes" rule:"min=1"`
	AllowedTypes []string `mapstructure:"allowed_types"  rule:"min=1"`
}

// Allows reports whether the given MIME type matches one of the tier's
// allowed patterns.
func (t TierLimits) Allows(contentType string) bool {
	for _, pattern := range t.AllowedTypes {
		if pattern == "*" {
			return true
		}

		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(contentType, prefix) {
				return true
			}

			continue
		}

		if pattern == contentType {
			return true
		}
	}

	return false
}

// CompressionConfig controls the image processing step. Keys are a closed
// set; unknown keys are rejected by viper's strict decode of this struct.
type CompressionConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Quality   float64 `mapstructure:"quality"    rule:"gt=0,lte=1"`
	MaxWidth  int     `mapstructure:"max_width"  rule:"min=1"`
	MaxHeight int     `mapstructure:"max_height" rule:"min=1"`
}

// UploadConfig holds the upload pipeline policy: plan tier limits,
// compression options and batch concurrency.
type UploadConfig struct {
	Tiers          map[PlanTier]TierLimits `mapstructure:"tiers"`
	Compression    CompressionConfig       `mapstructure:"compression"`
	MaxConcurrent  int                     `mapstructure:"max_concurrent" rule:"min=1,max=32"`
	Source         string                  `mapstructure:"source"`
	DefaultTier    PlanTier                `mapstructure:"default_tier"   rule:"oneof=free premium family"`
	OrphanGraceHrs int                     `mapstructure:"orphan_grace_hours" rule:"min=1"`
}

// TierLimitsFor resolves the limits for a plan tier. The tier set is closed:
// anything outside free/premium/family is a configuration error.
func (c *UploadConfig) TierLimitsFor(tier PlanTier) (TierLimits, error) {
	switch tier {
	case TierFree, TierPremium, TierFamily:
	default:
		return TierLimits{}, fmt.Errorf("unknown plan tier: %q", tier)
	}

	limits, ok := c.Tiers[tier]
	if !ok {
		return TierLimits{}, fmt.Errorf("no limits configured for tier %q", tier)
	}

	return limits, nil
}

// Validate checks the upload policy at construction time so bad values fail
// startup instead of the first upload.
func (c *UploadConfig) Validate() error {
	for _, tier := range []PlanTier{TierFree, TierPremium, TierFamily} {
		limits, ok := c.Tiers[tier]
		if !ok {
			return fmt.Errorf("missing limits for tier %q", tier)
		}

		if limits.MaxSizeBytes <= 0 {
			return fmt.Errorf("tier %q: max_size_bytes must be positive", tier)
		}

		if len(limits.AllowedTypes) == 0 {
			return fmt.Errorf("tier %q: allowed_types must not be empty", tier)
		}
	}

	for tier := range c.Tiers {
		switch tier {
		case TierFree, TierPremium, TierFamily:
		default:
			return fmt.Errorf("unknown plan tier in config: %q", tier)
		}
	}

	if q := c.Compression.Quality; q <= 0 || q > 1 {
		return fmt.Errorf("compression quality must be in (0,1], got %v", q)
	}

	if c.Compression.MaxWidth <= 0 || c.Compression.MaxHeight <= 0 {
		return fmt.Errorf("compression bounds must be positive")
	}

	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("max_concurrent must be positive")
	}

	return nil
}

// setDefaults applies the plan-limit table and pipeline defaults. The tier
// values are part of the observable contract: free = 10 MiB, images and text
// only; premium = 100 MiB, any type; family = 500 MiB, any type.
func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.tiers.free.max_size_bytes", DefaultFreeMaxSizeBytes)
	v.SetDefault("upload.tiers.free.allowed_types", []string{"image/*", "text/*"})
	v.SetDefault("upload.tiers.premium.max_size_bytes", DefaultPremiumMaxSizeBytes)
	v.SetDefault("upload.tiers.premium.allowed_types", []string{"*"})
	v.SetDefault("upload.tiers.family.max_size_bytes", DefaultFamilyMaxSizeBytes)
	v.SetDefault("upload.tiers.family.allowed_types", []string{"*"})

	v.SetDefault("upload.compression.enabled", true)
	v.SetDefault("upload.compression.quality", DefaultCompressionQuality)
	v.SetDefault("upload.compression.max_width", DefaultCompressionMaxWidth)
	v.SetDefault("upload.compression.max_height", DefaultCompressionMaxHeight)

	v.SetDefault("upload.max_concurrent", DefaultBatchMaxConcurrent)
	v.SetDefault("upload.source", DefaultUploadSource)
	v.SetDefault("upload.default_tier", string(TierFree))
	v.SetDefault("upload.orphan_grace_hours", 24)
}

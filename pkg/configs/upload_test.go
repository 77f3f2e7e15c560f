package configs_test

import (
	"testing"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
)

func TestTierLimitsAllows(t *testing.T) {
	limits := configs.TierLimits{
		MaxSizeBytes: 1 << 20,
		AllowedTypes: []string{"image/*", "text/plain"},
	}

	tests := []struct {
		mime string
		want bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"image/svg+xml", true},
		{"text/plain", true},
		{"text/html", false},
		{"video/mp4", false},
		{"imagez/png", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := limits.Allows(tt.mime); got != tt.want {
			t.Errorf("Allows(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}

	wildcard := configs.TierLimits{MaxSizeBytes: 1, AllowedTypes: []string{"*"}}
	if !wildcard.Allows("application/octet-stream") {
		t.Error("wildcard tier rejected a type")
	}
}

func TestTierLimitsFor(t *testing.T) {
	cfg := configs.UploadConfig{
		Tiers: map[configs.PlanTier]configs.TierLimits{
			configs.TierFree: {MaxSizeBytes: 10 << 20, AllowedTypes: []string{"image/*"}},
		},
	}

	if _, err := cfg.TierLimitsFor(configs.TierFree); err != nil {
		t.Fatalf("known tier failed: %v", err)
	}

	if _, err := cfg.TierLimitsFor(configs.PlanTier("gold")); err == nil {
		t.Error("unknown tier resolved")
	}

	// Tier in the closed set but absent from the table.
	if _, err := cfg.TierLimitsFor(configs.TierPremium); err == nil {
		t.Error("unconfigured tier resolved")
	}
}

func TestUploadConfigValidate(t *testing.T) {
	valid := configs.UploadConfig{
		Tiers: map[configs.PlanTier]configs.TierLimits{
			configs.TierFree:    {MaxSizeBytes: 10 << 20, AllowedTypes: []string{"image/*", "text/*"}},
			configs.TierPremium: {MaxSizeBytes: 100 << 20, AllowedTypes: []string{"*"}},
			configs.TierFamily:  {MaxSizeBytes: 500 << 20, AllowedTypes: []string{"*"}},
		},
		Compression:   configs.CompressionConfig{Enabled: true, Quality: 0.8, MaxWidth: 1920, MaxHeight: 1080},
		MaxConcurrent: 3,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	missing := valid
	missing.Tiers = map[configs.PlanTier]configs.TierLimits{
		configs.TierFree: valid.Tiers[configs.TierFree],
	}

	if err := missing.Validate(); err == nil {
		t.Error("config with missing tiers accepted")
	}

	badQuality := valid
	badQuality.Compression.Quality = 1.5

	if err := badQuality.Validate(); err == nil {
		t.Error("quality above 1 accepted")
	}

	extraTier := valid
	extraTier.Tiers = map[configs.PlanTier]configs.TierLimits{
		configs.TierFree:           valid.Tiers[configs.TierFree],
		configs.TierPremium:        valid.Tiers[configs.TierPremium],
		configs.TierFamily:         valid.Tiers[configs.TierFamily],
		configs.PlanTier("bronze"): {MaxSizeBytes: 1, AllowedTypes: []string{"*"}},
	}

	if err := extraTier.Validate(); err == nil {
		t.Error("unknown tier in table accepted")
	}
}

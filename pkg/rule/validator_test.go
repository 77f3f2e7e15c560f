package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/eduardoinoa18/memorybox/pkg/rule"
)

// tierConfig mirrors the shape of an upload tier entry.
type tierConfig struct {
	MaxSizeBytes int64    `rule:"min=1"`
	AllowedTypes []string `rule:"min=1"`
}

func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

func TestValidateStruct(t *testing.T) {
	valid := tierConfig{MaxSizeBytes: 10 << 20, AllowedTypes: []string{"image/*"}}

	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// zero size limit
	invalid1 := tierConfig{MaxSizeBytes: 0, AllowedTypes: []string{"*"}}

	if err := rule.ValidateStruct(invalid1); err == nil {
		t.Error("Expected error for zero size limit, got nil")
	}

	// empty allowed types
	invalid2 := tierConfig{MaxSizeBytes: 1, AllowedTypes: nil}

	if err := rule.ValidateStruct(invalid2); err == nil {
		t.Error("Expected error for empty allowed types, got nil")
	}
}

func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("user@example.com", "required,email"); err != nil {
		t.Errorf("Expected no error for valid email, got %v", err)
	}

	if err := rule.ValidateVar("invalid-email", "required,email"); err == nil {
		t.Error("Expected error for invalid email, got nil")
	}

	if err := rule.ValidateVar(0.8, "gt=0,lte=1"); err != nil {
		t.Errorf("Expected no error for valid quality, got %v", err)
	}

	if err := rule.ValidateVar(1.5, "gt=0,lte=1"); err == nil {
		t.Error("Expected error for quality above 1, got nil")
	}
}

func TestRegisterValidation(t *testing.T) {
	err := rule.RegisterValidation("mime_pattern", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return s == "*" || len(s) > 0 && s[len(s)-1] == '*' || len(s) > 0
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	if err := rule.ValidateVar("image/*", "mime_pattern"); err != nil {
		t.Errorf("Expected no error for mime pattern, got %v", err)
	}
}

func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("tier_name", "required,oneof=free premium family")

	if err := rule.ValidateVar("premium", "tier_name"); err != nil {
		t.Errorf("Expected no error for valid tier, got %v", err)
	}

	if err := rule.ValidateVar("platinum", "tier_name"); err == nil {
		t.Error("Expected error for unknown tier, got nil")
	}
}

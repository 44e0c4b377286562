package validation

import (
	"strings"
	"testing"

	"github.com/skillsenselab/scribekit/errors"
)

type sampleConfig struct {
	MaxConcurrency int    `mapstructure:"max_concurrency" validate:"required,gte=1"`
	Language       string `mapstructure:"language" validate:"omitempty,min=2"`
}

func TestValidate_Passes(t *testing.T) {
	cfg := sampleConfig{MaxConcurrency: 4, Language: "en"}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
}

func TestValidate_Fails(t *testing.T) {
	cfg := sampleConfig{MaxConcurrency: 0}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", errors.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "max_concurrency") {
		t.Errorf("expected field name in message, got %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"MaxConcurrency": "max_concurrency",
		"TTL":            "t_t_l",
		"Language":       "language",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

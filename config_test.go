package notebridge_test

import (
	"errors"
	"testing"

	notebridge "github.com/goliatone/go-notebridge"
)

func TestConfigValidateRejectsUnknownMode(t *testing.T) {
	cfg := notebridge.DefaultConfig()
	cfg.DefaultMode = "remote"

	if err := cfg.Validate(); !errors.Is(err, notebridge.ErrDefaultModeInvalid) {
		t.Fatalf("expected ErrDefaultModeInvalid, got %v", err)
	}
}

func TestConfigValidateRequiresBaseURL(t *testing.T) {
	cfg := notebridge.DefaultConfig()
	cfg.API.BaseURL = ""

	if err := cfg.Validate(); !errors.Is(err, notebridge.ErrAPIBaseURLRequired) {
		t.Fatalf("expected ErrAPIBaseURLRequired, got %v", err)
	}
}

func TestConfigValidateRejectsNegativeCacheBudget(t *testing.T) {
	cfg := notebridge.DefaultConfig()
	cfg.Cache.MaxTotalSizeMB = -1

	if err := cfg.Validate(); !errors.Is(err, notebridge.ErrCacheBudgetInvalid) {
		t.Fatalf("expected ErrCacheBudgetInvalid, got %v", err)
	}
}

func TestConfigValidateAllowsDefaults(t *testing.T) {
	cfg := notebridge.DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

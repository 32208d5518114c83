package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-notebridge/internal/runtimeconfig"
)

func TestConfigValidate_AcceptsDefaults(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsUnknownDefaultMode(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultMode = "remote"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrDefaultModeInvalid) {
		t.Fatalf("expected ErrDefaultModeInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresAPIBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAPIBaseURLRequired) {
		t.Fatalf("expected ErrAPIBaseURLRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeConcurrency(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Resolver.MaxConcurrency = -1

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrConcurrencyInvalid) {
		t.Fatalf("expected ErrConcurrencyInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsZeroRetryAttempts(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Retry.MaxAttempts = 0

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrRetryAttemptsInvalid) {
		t.Fatalf("expected ErrRetryAttemptsInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresNotesDirWhenEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Notes = true
	cfg.Notes.ContentDir = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrNotesContentDirRequired) {
		t.Fatalf("expected ErrNotesContentDirRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

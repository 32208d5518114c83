package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAPIBaseURLRequired indicates the remote API base URL is missing.
var ErrAPIBaseURLRequired = errors.New("notebridge config: api base url is required")

var ErrDefaultModeInvalid = errors.New("notebridge config: default mode is invalid")
var ErrConcurrencyInvalid = errors.New("notebridge config: resolver concurrency must be zero or positive")
var ErrRetryAttemptsInvalid = errors.New("notebridge config: retry attempts must be at least one")
var ErrRetryDelayInvalid = errors.New("notebridge config: retry delays must be zero or positive")
var ErrCacheBudgetInvalid = errors.New("notebridge config: cache budgets must be zero or positive")
var ErrNotesContentDirRequired = errors.New("notebridge config: notes content directory is required when notes are enabled")
var ErrLoggingProviderRequired = errors.New("notebridge config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("notebridge config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("notebridge config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("notebridge config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the notebridge module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled     bool
	DefaultMode string
	API         APIConfig
	Cache       CacheConfig
	Resolver    ResolverConfig
	Retry       RetryConfig
	Notes       NotesConfig
	Preview     PreviewConfig
	Logging     LoggingConfig
	Features    Features
}

// APIConfig captures connection settings for the remote note service.
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// CacheConfig captures size and freshness budgets for resolved resources.
type CacheConfig struct {
	MaxEntries     int
	MaxTotalSizeMB int
	TTL            time.Duration
}

// ResolverConfig captures runtime behaviour of the resolution pipeline.
type ResolverConfig struct {
	MaxConcurrency   int
	LocalResourceDir string
}

// RetryConfig captures the backoff policy applied to remote fetches.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NotesConfig captures filesystem behaviour for note ingestion.
type NotesConfig struct {
	Enabled    bool
	ContentDir string
	Pattern    string
	Recursive  bool
}

// PreviewConfig captures renderer behaviour for HTML previews.
type PreviewConfig struct {
	HardWraps bool
	SafeMode  bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Notes   bool
	Preview bool
	Logger  bool
}

// DefaultConfig returns opinionated defaults for a standalone deployment.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		DefaultMode: "inline",
		API: APIConfig{
			BaseURL: "http://127.0.0.1:41184",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			MaxEntries:     100,
			MaxTotalSizeMB: 50,
			TTL:            0,
		},
		Resolver: ResolverConfig{
			MaxConcurrency:   4,
			LocalResourceDir: "_resources",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    5 * time.Second,
		},
		Notes: NotesConfig{
			ContentDir: "notes",
			Pattern:    "*.md",
			Recursive:  true,
		},
		Preview: PreviewConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if mode := strings.TrimSpace(cfg.DefaultMode); mode != "" && mode != "inline" && mode != "file" {
		return fmt.Errorf("%w: %s", ErrDefaultModeInvalid, mode)
	}
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return ErrAPIBaseURLRequired
	}
	if cfg.Resolver.MaxConcurrency < 0 {
		return ErrConcurrencyInvalid
	}
	if cfg.Retry.MaxAttempts < 1 {
		return ErrRetryAttemptsInvalid
	}
	if cfg.Retry.BaseDelay < 0 || cfg.Retry.MaxDelay < 0 {
		return ErrRetryDelayInvalid
	}
	if cfg.Cache.MaxEntries < 0 || cfg.Cache.MaxTotalSizeMB < 0 {
		return ErrCacheBudgetInvalid
	}
	if cfg.Features.Notes {
		if strings.TrimSpace(cfg.Notes.ContentDir) == "" {
			return ErrNotesContentDirRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

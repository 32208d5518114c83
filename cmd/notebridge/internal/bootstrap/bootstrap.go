package bootstrap

import (
	"fmt"
	"strings"
	"time"

	notebridge "github.com/goliatone/go-notebridge"
	"github.com/goliatone/go-notebridge/internal/di"
	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

// Options captures configuration for notebridge CLI bootstraps.
type Options struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	ContentDir     string
	Pattern        string
	Recursive      bool
	Mode           string
	Concurrency    int
	LocalDir       string
	CacheTTL       time.Duration
	LogLevel       string
	LogFormat      string
	LogFocus       []string
	Preview        bool
	HardWraps      bool
	SafeMode       bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the notebridge module and the configured services for CLI use.
type Module struct {
	Module   *notebridge.Module
	Resolver notebridge.ResolverService
	Notes    *notebridge.NoteLoader
	Preview  *notebridge.PreviewRenderer
	Logger   interfaces.Logger
}

// BuildModule constructs a notebridge module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := notebridge.DefaultConfig()
	if trimmed := strings.TrimSpace(opts.BaseURL); trimmed != "" {
		cfg.API.BaseURL = trimmed
	}
	cfg.API.Token = strings.TrimSpace(opts.Token)
	if opts.Timeout > 0 {
		cfg.API.Timeout = opts.Timeout
	}
	if trimmed := strings.TrimSpace(opts.Mode); trimmed != "" {
		cfg.DefaultMode = trimmed
	}
	if opts.Concurrency > 0 {
		cfg.Resolver.MaxConcurrency = opts.Concurrency
	}
	if trimmed := strings.TrimSpace(opts.LocalDir); trimmed != "" {
		cfg.Resolver.LocalResourceDir = trimmed
	}
	if opts.CacheTTL > 0 {
		cfg.Cache.TTL = opts.CacheTTL
	}

	cfg.Features.Notes = true
	cfg.Notes.ContentDir = strings.TrimSpace(opts.ContentDir)
	if cfg.Notes.ContentDir == "" {
		cfg.Notes.ContentDir = "notes"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Notes.Pattern = trimmed
	}
	cfg.Notes.Recursive = opts.Recursive

	cfg.Features.Preview = opts.Preview
	cfg.Preview.HardWraps = opts.HardWraps
	cfg.Preview.SafeMode = opts.SafeMode

	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Format = trimmed
	}
	if len(opts.LogFocus) > 0 {
		cfg.Logging.Focus = opts.LogFocus
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := notebridge.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise notebridge module: %w", err)
	}

	logger := logging.ResolverLogger(module.Container().LoggerProvider())

	return &Module{
		Module:   module,
		Resolver: module.Resolver(),
		Notes:    module.Notes(),
		Preview:  module.Preview(),
		Logger:   logger,
	}, nil
}

// SplitFocus parses a comma separated logger focus list into a trimmed slice.
func SplitFocus(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	focus := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			focus = append(focus, trimmed)
		}
	}
	return focus
}

package resolvecmd

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-notebridge/internal/commands"
	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/internal/resolver"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const resolveNoteMessageType = "notebridge.note.resolve"

// ResolveNoteCommand resolves every embedded resource reference in a note body.
type ResolveNoteCommand struct {
	Body           string `json:"body"`
	Mode           string `json:"mode,omitempty"`
	MaxConcurrency int    `json:"max_concurrency,omitempty"`
}

// Type implements command.Message.
func (ResolveNoteCommand) Type() string { return resolveNoteMessageType }

// Validate ensures the command payload names a known mode and a sane concurrency bound.
func (m ResolveNoteCommand) Validate() error {
	errs := validation.Errors{}
	if mode := strings.TrimSpace(m.Mode); mode != "" {
		if mode != string(resolver.ModeInlineDataURI) && mode != string(resolver.ModeLocalFile) {
			errs["mode"] = validation.NewError("notebridge.note.resolve.mode_invalid", "mode must be inline or file")
		}
	}
	if m.MaxConcurrency < 0 {
		errs["max_concurrency"] = validation.NewError("notebridge.note.resolve.concurrency_invalid", "max_concurrency must be zero or positive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResultSink receives the resolution outcome once the pipeline completes.
type ResultSink func(ctx context.Context, result resolver.Result) error

// ResolveNoteHandler executes resolution runs against the resolver service.
type ResolveNoteHandler struct {
	service  resolver.Service
	logger   interfaces.Logger
	sink     ResultSink
	progress interfaces.ProgressFunc
	timeout  time.Duration
}

// ResolveNoteOption customises the resolve handler.
type ResolveNoteOption func(*ResolveNoteHandler)

// ResolveNoteWithTimeout overrides the default execution timeout.
func ResolveNoteWithTimeout(timeout time.Duration) ResolveNoteOption {
	return func(h *ResolveNoteHandler) {
		h.timeout = timeout
	}
}

// ResolveNoteWithSink registers a callback that receives the resolved result.
func ResolveNoteWithSink(sink ResultSink) ResolveNoteOption {
	return func(h *ResolveNoteHandler) {
		h.sink = sink
	}
}

// ResolveNoteWithProgress forwards per-resource progress updates to the callback.
func ResolveNoteWithProgress(fn interfaces.ProgressFunc) ResolveNoteOption {
	return func(h *ResolveNoteHandler) {
		h.progress = fn
	}
}

// NewResolveNoteHandler constructs a handler wired to the provided resolver service.
func NewResolveNoteHandler(service resolver.Service, logger interfaces.Logger, opts ...ResolveNoteOption) *ResolveNoteHandler {
	handler := &ResolveNoteHandler{
		service: service,
		logger:  commands.EnsureLogger(logger),
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// Execute satisfies command.Commander[ResolveNoteCommand].
func (h *ResolveNoteHandler) Execute(ctx context.Context, msg ResolveNoteCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	options := resolver.ResolveOptions{
		Mode:           resolver.Mode(strings.TrimSpace(msg.Mode)),
		MaxConcurrency: msg.MaxConcurrency,
		OnProgress:     h.progress,
	}

	result, err := h.service.Resolve(ctx, msg.Body, options)
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	if h.sink != nil {
		if err := h.sink(ctx, *result); err != nil {
			return commands.WrapExecuteError(err)
		}
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":  "note.resolve",
		"mode":       string(options.Mode),
		"total":      result.Stats.Total,
		"succeeded":  result.Stats.Succeeded,
		"failed":     result.Stats.Failed,
		"skipped":    result.Stats.Skipped,
		"cache_hits": result.Stats.CacheHits,
	}).Info("note.command.resolved")
	return nil
}

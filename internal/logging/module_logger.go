package logging

import (
	"context"

	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

const (
	rootModule     = "notebridge"
	resolverModule = "notebridge.resolver"
	clientModule   = "notebridge.client"
	cacheModule    = "notebridge.cache"
	notesModule    = "notebridge.notes"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ResolverLogger returns the logger namespace reserved for the resolution pipeline.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// ClientLogger returns the logger namespace reserved for the resource client.
func ClientLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, clientModule)
}

// CacheLogger returns the logger namespace reserved for the resource cache.
func CacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cacheModule)
}

// NotesLogger returns the logger namespace reserved for note loading workflows.
func NotesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, notesModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

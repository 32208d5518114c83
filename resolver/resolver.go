package resolver

import (
	"github.com/goliatone/go-notebridge/internal/cache"
	internalresolver "github.com/goliatone/go-notebridge/internal/resolver"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

// Re-exported errors from the internal resolver package.
var (
	ErrModeInvalid        = internalresolver.ErrModeInvalid
	ErrConcurrencyInvalid = internalresolver.ErrConcurrencyInvalid
	ErrAPIRequired        = internalresolver.ErrAPIRequired
)

// Re-exported types from the internal resolver package.
type (
	Mode            = internalresolver.Mode
	Status          = internalresolver.Status
	Outcome         = internalresolver.Outcome
	ReferenceResult = internalresolver.ReferenceResult
	Stats           = internalresolver.Stats
	Result          = internalresolver.Result
	ResolveOptions  = internalresolver.ResolveOptions
	Service         = internalresolver.Service
	ServiceOption   = internalresolver.ServiceOption
)

// Resolution modes.
const (
	ModeInlineDataURI = internalresolver.ModeInlineDataURI
	ModeLocalFile     = internalresolver.ModeLocalFile
)

// Terminal reference states.
const (
	StatusResolved = internalresolver.StatusResolved
	StatusSkipped  = internalresolver.StatusSkipped
	StatusFailed   = internalresolver.StatusFailed
)

// CacheConfig re-exports the resource cache bounds.
type CacheConfig = cache.Config

// CacheStats re-exports the resource cache counters.
type CacheStats = cache.Stats

// NewCache constructs the shared resource cache used by the pipeline.
func NewCache(cfg CacheConfig) *cache.Cache {
	return cache.New(cfg)
}

// WithLogger injects the pipeline logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return internalresolver.WithLogger(logger)
}

// WithLocalResourceDir overrides the relative directory used for local-file targets.
func WithLocalResourceDir(dir string) ServiceOption {
	return internalresolver.WithLocalResourceDir(dir)
}

// WithMaxConcurrency overrides the default in-flight fetch bound.
func WithMaxConcurrency(n int) ServiceOption {
	return internalresolver.WithMaxConcurrency(n)
}

// NewService constructs the resolution pipeline around a resource API and a
// shared cache.
func NewService(api interfaces.ResourceAPI, store *cache.Cache, opts ...ServiceOption) (Service, error) {
	return internalresolver.NewService(api, store, opts...)
}

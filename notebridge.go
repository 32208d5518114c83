package notebridge

import (
	"github.com/goliatone/go-notebridge/internal/cache"
	"github.com/goliatone/go-notebridge/internal/commands/resolvecmd"
	"github.com/goliatone/go-notebridge/internal/di"
	"github.com/goliatone/go-notebridge/internal/notes"
	"github.com/goliatone/go-notebridge/internal/preview"
	"github.com/goliatone/go-notebridge/internal/resolver"
)

// ResolverService exports the resolution pipeline contract for consumers of the
// notebridge package.
type ResolverService = resolver.Service

// ResolveOptions exports per-run pipeline options.
type ResolveOptions = resolver.ResolveOptions

// Result exports the outcome of a resolution run.
type Result = resolver.Result

// Stats exports per-run resolution counters.
type Stats = resolver.Stats

// CacheStats exports cache counters.
type CacheStats = cache.Stats

// NoteLoader exports the filesystem note loader.
type NoteLoader = notes.Loader

// Document exports a parsed note document.
type Document = notes.Document

// PreviewRenderer exports the HTML preview renderer.
type PreviewRenderer = preview.Renderer

// ResolveNoteHandler exports the command handler bound to the pipeline.
type ResolveNoteHandler = resolvecmd.ResolveNoteHandler

// ResolveNoteCommand exports the resolve command message.
type ResolveNoteCommand = resolvecmd.ResolveNoteCommand

// Module represents the top level notebridge runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a notebridge module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Resolver returns the configured resolution pipeline service.
func (m *Module) Resolver() ResolverService {
	return m.container.ResolverService()
}

// Notes returns the configured note loader, or nil when the notes feature is
// disabled.
func (m *Module) Notes() *NoteLoader {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.NoteLoader()
}

// Preview returns the HTML renderer, or nil when previews are disabled.
func (m *Module) Preview() *PreviewRenderer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PreviewRenderer()
}

// ResolveHandler builds a command handler bound to the resolver service.
func (m *Module) ResolveHandler(opts ...resolvecmd.ResolveNoteOption) *ResolveNoteHandler {
	return m.container.ResolveNoteHandler(opts...)
}

// CacheStats reports cache counters for the shared resource cache.
func (m *Module) CacheStats() CacheStats {
	return m.container.ResolverService().CacheStats()
}

// CacheHitRatio reports the fraction of cache lookups served from memory.
func (m *Module) CacheHitRatio() float64 {
	return m.container.ResolverService().CacheHitRatio()
}

// ClearCache discards all cached resource content.
func (m *Module) ClearCache() {
	m.container.ResolverService().ClearCache()
}

package di

import (
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-notebridge/internal/cache"
	"github.com/goliatone/go-notebridge/internal/client"
	"github.com/goliatone/go-notebridge/internal/commands/resolvecmd"
	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/internal/logging/console"
	"github.com/goliatone/go-notebridge/internal/logging/gologger"
	"github.com/goliatone/go-notebridge/internal/notes"
	"github.com/goliatone/go-notebridge/internal/preview"
	"github.com/goliatone/go-notebridge/internal/resolver"
	"github.com/goliatone/go-notebridge/internal/retry"
	"github.com/goliatone/go-notebridge/internal/runtimeconfig"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

// Container wires module dependencies from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client
	api            interfaces.ResourceAPI
	store          *cache.Cache
	notesFS        fs.FS

	resolverSvc resolver.Service
	loader      *notes.Loader
	renderer    *preview.Renderer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the default logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient overrides the HTTP client used for remote fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Container) {
		c.httpClient = hc
	}
}

// WithResourceAPI overrides the default remote API client.
func WithResourceAPI(api interfaces.ResourceAPI) Option {
	return func(c *Container) {
		c.api = api
	}
}

// WithCache overrides the default resource cache.
func WithCache(store *cache.Cache) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithNotesFS overrides the filesystem used for note ingestion. Defaults to
// the configured content directory on the host filesystem.
func WithNotesFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.notesFS = fsys
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureResourceAPI(); err != nil {
		return nil, err
	}
	c.configureCache()
	if err := c.configureResolver(); err != nil {
		return nil, err
	}
	c.configureNotes()
	c.configurePreview()

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		minLevel := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &minLevel})
	}
	return nil
}

func (c *Container) configureResourceAPI() error {
	if c.api != nil {
		return nil
	}
	httpClient := c.httpClient
	if httpClient == nil && c.Config.API.Timeout > 0 {
		httpClient = &http.Client{Timeout: c.Config.API.Timeout}
	}
	apiClient, err := client.New(client.Config{
		BaseURL:    c.Config.API.BaseURL,
		Token:      c.Config.API.Token,
		HTTPClient: httpClient,
		Retry: retry.Config{
			MaxAttempts: c.Config.Retry.MaxAttempts,
			BaseDelay:   c.Config.Retry.BaseDelay,
			MaxDelay:    c.Config.Retry.MaxDelay,
		},
		Logger: logging.ClientLogger(c.loggerProvider),
	})
	if err != nil {
		return err
	}
	c.api = apiClient
	return nil
}

func (c *Container) configureCache() {
	if c.store != nil {
		return
	}
	c.store = cache.New(cache.Config{
		MaxEntries:    c.Config.Cache.MaxEntries,
		MaxTotalBytes: int64(c.Config.Cache.MaxTotalSizeMB) << 20,
		TTL:           c.Config.Cache.TTL,
		Logger:        logging.CacheLogger(c.loggerProvider),
	})
}

func (c *Container) configureResolver() error {
	svc, err := resolver.NewService(c.api, c.store,
		resolver.WithLogger(logging.ResolverLogger(c.loggerProvider)),
		resolver.WithLocalResourceDir(c.Config.Resolver.LocalResourceDir),
		resolver.WithMaxConcurrency(c.Config.Resolver.MaxConcurrency),
	)
	if err != nil {
		return err
	}
	c.resolverSvc = svc
	return nil
}

func (c *Container) configureNotes() {
	if !c.Config.Features.Notes {
		return
	}
	fsys := c.notesFS
	if fsys == nil {
		fsys = os.DirFS(c.Config.Notes.ContentDir)
	}
	c.loader = notes.NewLoader(fsys, notes.LoaderConfig{
		Pattern:   c.Config.Notes.Pattern,
		Recursive: c.Config.Notes.Recursive,
	}, logging.NotesLogger(c.loggerProvider))
}

func (c *Container) configurePreview() {
	if !c.Config.Features.Preview {
		return
	}
	c.renderer = preview.NewRenderer(preview.Options{
		HardWraps: c.Config.Preview.HardWraps,
		SafeMode:  c.Config.Preview.SafeMode,
	})
}

// LoggerProvider returns the configured logger provider, which may be nil when
// the logging feature is disabled and no override was supplied.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ResourceAPI returns the remote API client.
func (c *Container) ResourceAPI() interfaces.ResourceAPI {
	return c.api
}

// Cache returns the shared resource cache.
func (c *Container) Cache() *cache.Cache {
	return c.store
}

// ResolverService returns the resolution pipeline service.
func (c *Container) ResolverService() resolver.Service {
	return c.resolverSvc
}

// NoteLoader returns the note loader, or nil when the notes feature is disabled.
func (c *Container) NoteLoader() *notes.Loader {
	return c.loader
}

// PreviewRenderer returns the HTML renderer, or nil when previews are disabled.
func (c *Container) PreviewRenderer() *preview.Renderer {
	return c.renderer
}

// ResolveNoteHandler builds a command handler bound to the resolver service.
func (c *Container) ResolveNoteHandler(opts ...resolvecmd.ResolveNoteOption) *resolvecmd.ResolveNoteHandler {
	logger := logging.ModuleLogger(c.loggerProvider, "notebridge.commands.notes")
	return resolvecmd.NewResolveNoteHandler(c.resolverSvc, logger, opts...)
}

package resolver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-notebridge/internal/cache"
	"github.com/goliatone/go-notebridge/internal/client"
	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/internal/scanner"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

const (
	defaultMaxConcurrency   = 4
	defaultLocalResourceDir = "_resources"
)

// Service resolves embedded resource references inside note bodies.
type Service interface {
	Resolve(ctx context.Context, body string, opts ResolveOptions) (*Result, error)
	CacheStats() cache.Stats
	CacheHitRatio() float64
	ClearCache()
}

// ServiceOption customises the resolution service.
type ServiceOption func(*service)

// WithLogger injects the pipeline logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocalResourceDir overrides the relative directory used for local-file
// targets.
func WithLocalResourceDir(dir string) ServiceOption {
	return func(s *service) {
		if dir != "" {
			s.localDir = dir
		}
	}
}

// WithMaxConcurrency overrides the default in-flight fetch bound applied when
// ResolveOptions does not specify one.
func WithMaxConcurrency(n int) ServiceOption {
	return func(s *service) {
		if n > 0 {
			s.defaultConcurrency = n
		}
	}
}

type service struct {
	api                interfaces.ResourceAPI
	store              *cache.Cache
	logger             interfaces.Logger
	localDir           string
	defaultConcurrency int

	// flights coalesces identical fetches across concurrently running
	// resolution passes sharing this service.
	flights singleflight.Group
}

// NewService constructs the resolution pipeline around a resource API and a
// shared cache.
func NewService(api interfaces.ResourceAPI, store *cache.Cache, opts ...ServiceOption) (Service, error) {
	if api == nil {
		return nil, ErrAPIRequired
	}
	if store == nil {
		store = cache.New(cache.Config{})
	}

	s := &service{
		api:                api,
		store:              store,
		logger:             logging.NoOp(),
		localDir:           defaultLocalResourceDir,
		defaultConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Resolve scans body, resolves every distinct referenced resource under the
// concurrency bound, and substitutes targets in original occurrence order.
// Fetch failures never escape: they surface as Failed outcomes on the
// affected id. The only returned errors are caller misuse.
func (s *service) Resolve(ctx context.Context, body string, opts ResolveOptions) (*Result, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeInlineDataURI
	}
	if mode != ModeInlineDataURI && mode != ModeLocalFile {
		return nil, fmt.Errorf("%w: %q", ErrModeInvalid, opts.Mode)
	}
	if opts.MaxConcurrency < 0 {
		return nil, fmt.Errorf("%w: %d", ErrConcurrencyInvalid, opts.MaxConcurrency)
	}
	concurrency := opts.MaxConcurrency
	if concurrency == 0 {
		concurrency = s.defaultConcurrency
	}
	if ctx == nil {
		ctx = context.Background()
	}

	refs := scanner.Scan(body)
	if len(refs) == 0 {
		return &Result{Body: body}, nil
	}

	runLogger := logging.WithFields(s.logger, map[string]any{
		"run_id": uuid.NewString(),
		"mode":   string(mode),
	})
	runLogger.Debug("resolver.run.start", "references", len(refs))

	distinct := distinctIDs(refs)
	total := len(distinct)

	outcomes := make(map[string]Outcome, total)

	var progressMu sync.Mutex
	processed := 0
	emit := func() {
		progressMu.Lock()
		processed++
		snapshot := processed
		progressMu.Unlock()
		if opts.OnProgress != nil {
			opts.OnProgress(interfaces.Progress{Processed: snapshot, Total: total})
		}
	}

	// Cache pass: ids already cached reach their terminal state without a
	// fetch task.
	var pending []string
	for _, id := range distinct {
		if entry, ok := s.store.Get(cacheKey(mode, id)); ok {
			outcomes[id] = s.outcomeFromCache(mode, id, entry)
			emit()
			continue
		}
		pending = append(pending, id)
	}

	if len(pending) > 0 {
		var mu sync.Mutex
		g := new(errgroup.Group)
		g.SetLimit(concurrency)
		for _, id := range pending {
			g.Go(func() error {
				outcome := s.resolveID(ctx, mode, id)

				mu.Lock()
				outcomes[id] = outcome
				mu.Unlock()
				emit()
				return nil
			})
		}
		// Tasks never return errors; failures live in their outcomes.
		_ = g.Wait()
	}

	result := assemble(body, refs, outcomes)
	runLogger.Info("resolver.run.complete",
		"total", result.Stats.Total,
		"succeeded", result.Stats.Succeeded,
		"failed", result.Stats.Failed,
		"skipped", result.Stats.Skipped,
		"cache_hits", result.Stats.CacheHits,
	)
	return result, nil
}

// CacheStats exposes the shared cache counters.
func (s *service) CacheStats() cache.Stats {
	return s.store.Stats()
}

// CacheHitRatio exposes the shared cache effectiveness percentage.
func (s *service) CacheHitRatio() float64 {
	return s.store.HitRatio()
}

// ClearCache drops every cached resource.
func (s *service) ClearCache() {
	s.store.Clear()
}

// resolveID funnels a fetch through singleflight so concurrent runs resolving
// the same id share one outstanding fetch.
func (s *service) resolveID(ctx context.Context, mode Mode, id string) Outcome {
	key := cacheKey(mode, id)
	value, _, shared := s.flights.Do(key, func() (any, error) {
		return s.fetchOutcome(ctx, mode, id), nil
	})
	outcome := value.(Outcome)
	if shared {
		s.logger.Debug("resolver.fetch.coalesced", "resource_id", id)
	}
	return outcome
}

func (s *service) fetchOutcome(ctx context.Context, mode Mode, id string) Outcome {
	meta, err := s.api.Metadata(ctx, id)
	if err != nil {
		s.logger.Warn("resolver.metadata.failed", "resource_id", id, "error", err)
		return failureOutcome(err)
	}

	ext, ok := imageExtensions[meta.Mime]
	if !ok {
		s.logger.Debug("resolver.skip.unsupported_media", "resource_id", id, "mime", meta.Mime)
		return Outcome{
			Status: StatusSkipped,
			Mime:   meta.Mime,
			Reason: "unsupported media type " + meta.Mime,
		}
	}

	data, err := s.api.Data(ctx, id)
	if err != nil {
		s.logger.Warn("resolver.data.failed", "resource_id", id, "error", err)
		return failureOutcome(err)
	}

	outcome := Outcome{
		Status: StatusResolved,
		Mime:   meta.Mime,
	}
	switch mode {
	case ModeLocalFile:
		outcome.Filename = id + "." + ext
		outcome.Target = s.localDir + "/" + outcome.Filename
		outcome.Content = data
		s.store.Set(cacheKey(mode, id), data, meta.Mime)
	default:
		outcome.Target = dataURI(meta.Mime, data)
		s.store.Set(cacheKey(mode, id), []byte(outcome.Target), meta.Mime)
	}
	return outcome
}

// outcomeFromCache rebuilds a resolved outcome from the mode-qualified cache
// entry without touching the network.
func (s *service) outcomeFromCache(mode Mode, id string, entry *cache.Entry) Outcome {
	outcome := Outcome{
		Status:   StatusResolved,
		Mime:     entry.Mime,
		CacheHit: true,
	}
	switch mode {
	case ModeLocalFile:
		ext := imageExtensions[entry.Mime]
		if ext == "" {
			ext = "bin"
		}
		outcome.Filename = id + "." + ext
		outcome.Target = s.localDir + "/" + outcome.Filename
		outcome.Content = entry.Content
	default:
		outcome.Target = string(entry.Content)
	}
	return outcome
}

// failureOutcome maps client errors onto readable reasons. Raw identifiers
// never leak into the rendered placeholder.
func failureOutcome(err error) Outcome {
	reason := "transient failure"
	switch {
	case errors.Is(err, client.ErrNotFound):
		reason = "not found"
	case errors.Is(err, client.ErrInvalidID):
		reason = "invalid resource id"
	case errors.Is(err, client.ErrCorruptPayload):
		reason = "corrupt payload"
	default:
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) && statusErr.Code < 500 {
			reason = fmt.Sprintf("remote error (status %d)", statusErr.Code)
		}
	}
	return Outcome{Status: StatusFailed, Reason: reason}
}

func distinctIDs(refs []scanner.Reference) []string {
	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		ids = append(ids, ref.ID)
	}
	return ids
}

func cacheKey(mode Mode, id string) string {
	return string(mode) + ":" + id
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

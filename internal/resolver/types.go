package resolver

import (
	"errors"

	"github.com/goliatone/go-notebridge/internal/scanner"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

var (
	// ErrModeInvalid reports an unknown resolution mode. Caller misuse.
	ErrModeInvalid = errors.New("resolver: invalid resolution mode")
	// ErrConcurrencyInvalid reports a negative concurrency bound. Caller misuse.
	ErrConcurrencyInvalid = errors.New("resolver: max concurrency must be zero or positive")
	// ErrAPIRequired reports a service constructed without a resource API.
	ErrAPIRequired = errors.New("resolver: resource API is required")
)

// Mode selects the target representation for resolved resources.
type Mode string

const (
	// ModeInlineDataURI rewrites references to base64 data URIs.
	ModeInlineDataURI Mode = "inline"
	// ModeLocalFile rewrites references to local file paths and hands the raw
	// bytes to the caller for writing.
	ModeLocalFile Mode = "file"
)

// Status is the terminal state of a reference after a resolution run.
type Status string

const (
	StatusResolved Status = "resolved"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// imageExtensions doubles as the image mime allow-list: anything outside it
// is skipped rather than fetched.
var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Outcome describes what happened to one distinct resource id.
type Outcome struct {
	Status Status
	// Target is the substitution value for resolved references: a data URI in
	// inline mode, a relative file path in local-file mode.
	Target string
	Mime   string
	// Content carries the raw payload in local-file mode so callers can write
	// the sidecar file. Nil in inline mode (the payload lives in Target).
	Content []byte
	// Filename is the suggested sidecar filename in local-file mode.
	Filename string
	// Reason is a human-readable failure description. Empty unless failed or
	// skipped.
	Reason string
	// CacheHit marks outcomes served without touching the network.
	CacheHit bool
}

// ReferenceResult pairs one textual occurrence with its outcome. Occurrences
// sharing an id share the same outcome.
type ReferenceResult struct {
	Reference scanner.Reference
	Outcome   Outcome
}

// Stats summarises a resolution run. Total, Succeeded, Failed, and Skipped
// count reference occurrences; CacheHits counts distinct ids served from the
// cache.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	CacheHits int
}

// Result is the output of one resolution run. References preserves the
// original, non-deduplicated occurrence order.
type Result struct {
	Body       string
	References []ReferenceResult
	Stats      Stats
}

// ResolveOptions tunes one resolution run. The zero value resolves inline
// with the default concurrency bound.
type ResolveOptions struct {
	Mode           Mode
	MaxConcurrency int
	OnProgress     interfaces.ProgressFunc
}

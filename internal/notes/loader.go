package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

// ErrDocumentNotFound reports a note path the loader could not resolve.
var ErrDocumentNotFound = errors.New("notes: document not found")

// FrontMatter carries the note metadata embedded at the top of exported
// markdown files. Unknown keys are preserved in Custom.
type FrontMatter struct {
	Title   string         `yaml:"title"`
	NoteID  string         `yaml:"note_id"`
	Source  string         `yaml:"source"`
	Tags    []string       `yaml:"tags"`
	Created time.Time      `yaml:"created"`
	Updated time.Time      `yaml:"updated"`
	Custom  map[string]any `yaml:",inline"`
}

// Document is a note body plus its metadata, ready for resolution.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         string
	LastModified time.Time
}

// LoaderConfig controls document discovery.
type LoaderConfig struct {
	// Pattern is the glob applied to file names. Defaults to "*.md".
	Pattern string
	// Recursive walks subdirectories when listing.
	Recursive bool
}

// Loader reads note documents from a filesystem root.
type Loader struct {
	fsys   fs.FS
	cfg    LoaderConfig
	logger interfaces.Logger
}

// NewLoader constructs a loader over the supplied filesystem.
func NewLoader(fsys fs.FS, cfg LoaderConfig, logger interfaces.Logger) *Loader {
	if cfg.Pattern == "" {
		cfg.Pattern = "*.md"
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Loader{fsys: fsys, cfg: cfg, logger: logger}
}

// Load reads a single note document relative to the loader root.
func (l *Loader) Load(ctx context.Context, filePath string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := fs.ReadFile(l.fsys, filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, filePath)
		}
		return nil, fmt.Errorf("notes: read %s: %w", filePath, err)
	}

	var modified time.Time
	if info, err := fs.Stat(l.fsys, filePath); err == nil {
		modified = info.ModTime()
	}

	doc, err := buildDocument(filePath, source, modified)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("notes.load", "path", filePath, "title", doc.FrontMatter.Title)
	return doc, nil
}

// LoadDirectory reads every note document under dir matching the configured
// pattern, sorted by path for deterministic output.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	if dir == "" {
		dir = "."
	}

	var docs []*Document
	walk := func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if !l.cfg.Recursive && filePath != dir {
				return fs.SkipDir
			}
			return nil
		}
		matched, err := path.Match(l.cfg.Pattern, entry.Name())
		if err != nil || !matched {
			return err
		}
		doc, err := l.Load(ctx, filePath)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	}

	if err := fs.WalkDir(l.fsys, dir, walk); err != nil {
		return nil, fmt.Errorf("notes: walk %s: %w", dir, err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// ParseFrontMatter splits note source bytes into metadata and body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("notes: parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, body, nil
}

func buildDocument(filePath string, source []byte, modified time.Time) (*Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	return &Document{
		FilePath:     filePath,
		FrontMatter:  meta,
		Body:         string(body),
		LastModified: modified,
	}, nil
}

package preview

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options configures the preview renderer.
type Options struct {
	// HardWraps renders single newlines as <br> elements.
	HardWraps bool
	// SafeMode escapes raw HTML. Off by default so resolved <img> tags and
	// data URIs render as images.
	SafeMode bool
}

// Renderer converts resolved note bodies into HTML using goldmark. The
// renderer is stateless; a single instance can be shared without locking.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer constructs a goldmark-backed renderer with GFM extensions.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{engine: engine}
}

// Render converts a markdown body into HTML.
func (r *Renderer) Render(ctx context.Context, body string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(body), &buf); err != nil {
		return nil, fmt.Errorf("preview: render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

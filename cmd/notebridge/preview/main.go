package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-notebridge/cmd/notebridge/internal/bootstrap"
	"github.com/goliatone/go-notebridge/internal/resolver"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	var (
		baseURL     = flag.String("base-url", "http://127.0.0.1:41184", "Base URL of the note service REST API")
		token       = flag.String("token", os.Getenv("NOTEBRIDGE_TOKEN"), "API token (defaults to NOTEBRIDGE_TOKEN)")
		contentDir  = flag.String("content-dir", "notes", "Path to the note content root")
		pattern     = flag.String("pattern", "*.md", "Glob pattern applied when discovering note files")
		filePath    = flag.String("file", "", "Note file to preview (relative to the content root)")
		concurrency = flag.Int("concurrency", 4, "Maximum concurrent resource fetches")
		timeout     = flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
		safeMode    = flag.Bool("safe-mode", false, "Escape raw HTML in the rendered output")
		hardWraps   = flag.Bool("hard-wraps", false, "Render newlines as <br> elements")
		logLevel    = flag.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
		logFormat   = flag.String("log-format", "console", "Log format (json, console, pretty)")
		logFocus    = flag.String("log-focus", "", "Comma separated logger names to focus on (silences the rest)")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		BaseURL:     *baseURL,
		Token:       *token,
		Timeout:     *timeout,
		ContentDir:  *contentDir,
		Pattern:     *pattern,
		Recursive:   true,
		Mode:        string(resolver.ModeInlineDataURI),
		Concurrency: *concurrency,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
		LogFocus:    bootstrap.SplitFocus(*logFocus),
		Preview:     true,
		HardWraps:   *hardWraps,
		SafeMode:    *safeMode,
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}

	ctx := context.Background()

	doc, err := module.Notes.Load(ctx, *filePath)
	if err != nil {
		log.Fatalf("load note: %v", err)
	}

	result, err := module.Resolver.Resolve(ctx, doc.Body, resolver.ResolveOptions{
		Mode:           resolver.ModeInlineDataURI,
		MaxConcurrency: *concurrency,
	})
	if err != nil {
		log.Fatalf("resolve note: %v", err)
	}

	html, err := module.Preview.Render(ctx, result.Body)
	if err != nil {
		log.Fatalf("render preview: %v", err)
	}

	fmt.Fprintf(os.Stdout, "%s", html)
}

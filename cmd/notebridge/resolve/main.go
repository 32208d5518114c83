package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-notebridge/cmd/notebridge/internal/bootstrap"
	"github.com/goliatone/go-notebridge/internal/resolver"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	var (
		baseURL     = flag.String("base-url", "http://127.0.0.1:41184", "Base URL of the note service REST API")
		token       = flag.String("token", os.Getenv("NOTEBRIDGE_TOKEN"), "API token (defaults to NOTEBRIDGE_TOKEN)")
		contentDir  = flag.String("content-dir", "notes", "Path to the note content root")
		pattern     = flag.String("pattern", "*.md", "Glob pattern applied when discovering note files")
		filePath    = flag.String("file", "", "Note file to resolve (relative to the content root)")
		mode        = flag.String("mode", "inline", "Substitution mode: inline (data URIs) or file (local paths)")
		concurrency = flag.Int("concurrency", 4, "Maximum concurrent resource fetches")
		localDir    = flag.String("local-dir", "_resources", "Directory for downloaded resources in file mode")
		outPath     = flag.String("out", "", "Write the resolved body to this file instead of stdout")
		cacheTTL    = flag.Duration("cache-ttl", 0, "Cache entry time-to-live (0 disables expiry)")
		timeout     = flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
		logLevel    = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
		logFormat   = flag.String("log-format", "console", "Log format (json, console, pretty)")
		logFocus    = flag.String("log-focus", "", "Comma separated logger names to focus on (silences the rest)")
		progress    = flag.Bool("progress", false, "Print per-resource progress to stderr")
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
		Mode:        *mode,
		Concurrency: *concurrency,
		LocalDir:    *localDir,
		CacheTTL:    *cacheTTL,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
		LogFocus:    bootstrap.SplitFocus(*logFocus),
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}

	ctx := context.Background()

	doc, err := module.Notes.Load(ctx, *filePath)
	if err != nil {
		log.Fatalf("load note: %v", err)
	}

	opts := resolver.ResolveOptions{
		Mode:           resolver.Mode(*mode),
		MaxConcurrency: *concurrency,
	}
	if *progress {
		opts.OnProgress = func(p interfaces.Progress) {
			fmt.Fprintf(os.Stderr, "resolved %d/%d resources\n", p.Processed, p.Total)
		}
	}

	result, err := module.Resolver.Resolve(ctx, doc.Body, opts)
	if err != nil {
		log.Fatalf("resolve note: %v", err)
	}

	if opts.Mode == resolver.ModeLocalFile {
		if err := writeLocalResources(*contentDir, *localDir, result); err != nil {
			log.Fatalf("write resources: %v", err)
		}
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(result.Body), 0o644); err != nil {
			log.Fatalf("write resolved note: %v", err)
		}
	} else {
		fmt.Fprint(os.Stdout, result.Body)
	}

	fmt.Fprintf(os.Stderr, "references: %d resolved, %d failed, %d skipped, %d cache hits\n",
		result.Stats.Succeeded, result.Stats.Failed, result.Stats.Skipped, result.Stats.CacheHits)
}

// writeLocalResources persists fetched payloads next to the content root so
// rewritten relative targets stay valid.
func writeLocalResources(contentDir, localDir string, result *resolver.Result) error {
	written := map[string]bool{}
	for _, ref := range result.References {
		out := ref.Outcome
		if out.Status != resolver.StatusResolved || len(out.Content) == 0 {
			continue
		}
		if written[out.Filename] {
			continue
		}
		dir := filepath.Join(contentDir, localDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, out.Filename), out.Content, 0o644); err != nil {
			return err
		}
		written[out.Filename] = true
	}
	return nil
}

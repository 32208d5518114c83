package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 2, 11, 9, 41, 7, 120311000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("notebridge.resolver")
	logger = logging.WithFields(logger, map[string]any{"module": "notebridge.resolver"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"run_id": "run-7c41",
	})
	logger = logger.WithContext(ctx)

	logger.Info("resource.fetched",
		"resource_id", "0123456789abcdef0123456789abcdef",
		"fetched_at", time.Date(2026, 2, 11, 9, 41, 6, 0, time.UTC),
	)

	got := strings.TrimSpace(buf.String())
	want := "2026-02-11T09:41:07.120311Z INFO resource.fetched fetched_at=2026-02-11T09:41:06Z logger=notebridge.resolver module=notebridge.resolver resource_id=0123456789abcdef0123456789abcdef run_id=run-7c41"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("notebridge.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"debug":   console.LevelDebug,
		"info":    console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
		"fatal":   console.LevelFatal,
		"":        console.LevelInfo,
		"bogus":   console.LevelInfo,
	}
	for input, want := range cases {
		if got := console.ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

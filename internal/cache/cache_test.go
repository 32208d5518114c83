package cache

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSetGetRoundTrip(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{MaxEntries: 4, MaxTotalBytes: 1 << 20, TTL: 30 * time.Minute, Now: clock.Now})

	content := []byte("png-bytes")
	c.Set("a", content, "image/png")

	entry, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for freshly stored entry")
	}
	if !bytes.Equal(entry.Content, content) {
		t.Fatalf("unexpected content %q", entry.Content)
	}
	if entry.Mime != "image/png" {
		t.Fatalf("unexpected mime %q", entry.Mime)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 0 || stats.Size != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestGetReturnsDetachedContent(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{MaxEntries: 4, MaxTotalBytes: 1 << 20, Now: clock.Now})

	c.Set("a", []byte("png-bytes"), "image/png")

	entry, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	entry.Content[0] = 'X'

	fresh, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if !bytes.Equal(fresh.Content, []byte("png-bytes")) {
		t.Fatalf("cached payload mutated through returned slice: %q", fresh.Content)
	}
}

func TestExpiredEntryBehavesAsMiss(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{MaxEntries: 4, MaxTotalBytes: 1 << 20, TTL: 10 * time.Minute, Now: clock.Now})

	c.Set("a", []byte("x"), "image/png")
	clock.Advance(10 * time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Has("a") {
		t.Fatal("expected Has to report expired entry as absent")
	}

	stats := c.Stats()
	if stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.Size != 0 {
		t.Fatalf("expected expired entry removed, size=%d", stats.Size)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(Config{MaxEntries: 3, MaxTotalBytes: 1 << 20, TTL: time.Hour, Now: newFakeClock().Now})

	c.Set("a", []byte("1"), "image/png")
	c.Set("b", []byte("2"), "image/png")
	c.Set("c", []byte("3"), "image/png")
	c.Set("d", []byte("4"), "image/png")

	if c.Has("a") {
		t.Fatal("expected oldest entry evicted")
	}
	for _, id := range []string{"b", "c", "d"} {
		if !c.Has(id) {
			t.Fatalf("expected %q to survive", id)
		}
	}
}

func TestReadPromotionChangesEvictionVictim(t *testing.T) {
	c := New(Config{MaxEntries: 3, MaxTotalBytes: 1 << 20, TTL: time.Hour, Now: newFakeClock().Now})

	c.Set("a", []byte("1"), "image/png")
	c.Set("b", []byte("2"), "image/png")
	c.Set("c", []byte("3"), "image/png")

	// Reading "a" promotes it, so "b" becomes the LRU victim.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}
	c.Set("d", []byte("4"), "image/png")

	if c.Has("b") {
		t.Fatal("expected b to be evicted after a was promoted")
	}
	if !c.Has("a") {
		t.Fatal("expected promoted entry to survive")
	}
}

func TestByteBudgetEviction(t *testing.T) {
	c := New(Config{MaxEntries: 10, MaxTotalBytes: 10, TTL: time.Hour, Now: newFakeClock().Now})

	c.Set("a", []byte("1234"), "image/png")
	c.Set("b", []byte("1234"), "image/png")
	c.Set("c", []byte("1234"), "image/png")

	stats := c.Stats()
	if stats.TotalBytes > 10 {
		t.Fatalf("byte budget exceeded: %d", stats.TotalBytes)
	}
	if c.Has("a") {
		t.Fatal("expected oldest entry evicted under byte pressure")
	}
}

func TestOversizedEntryRejected(t *testing.T) {
	c := New(Config{MaxEntries: 10, MaxTotalBytes: 10, TTL: time.Hour, Now: newFakeClock().Now})

	c.Set("small", []byte("123"), "image/png")
	c.Set("big", bytes.Repeat([]byte("x"), 6), "image/png")

	if c.Has("big") {
		t.Fatal("expected oversized entry to be rejected")
	}
	if !c.Has("small") {
		t.Fatal("expected existing entry to survive an oversized insert")
	}
}

func TestPerformMaintenancePurgesExpired(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{MaxEntries: 10, MaxTotalBytes: 1 << 20, TTL: 5 * time.Minute, Now: clock.Now})

	c.Set("a", []byte("1"), "image/png")
	clock.Advance(3 * time.Minute)
	c.Set("b", []byte("2"), "image/png")
	clock.Advance(2 * time.Minute)

	c.PerformMaintenance()

	stats := c.Stats()
	if stats.Size != 1 {
		t.Fatalf("expected only the younger entry to survive, size=%d", stats.Size)
	}
	if !c.Has("b") || c.Has("a") {
		t.Fatal("maintenance removed the wrong entry")
	}
}

func TestHitRatio(t *testing.T) {
	c := New(Config{MaxEntries: 4, MaxTotalBytes: 1 << 20, TTL: time.Hour, Now: newFakeClock().Now})

	if got := c.HitRatio(); got != 0 {
		t.Fatalf("expected 0 ratio before any access, got %v", got)
	}

	c.Set("a", []byte("1"), "image/png")
	c.Get("a")
	c.Get("missing")

	if got := c.HitRatio(); got != 50 {
		t.Fatalf("expected 50%% hit ratio, got %v", got)
	}
}

func TestClearDropsEntriesKeepsCounters(t *testing.T) {
	c := New(Config{MaxEntries: 4, MaxTotalBytes: 1 << 20, TTL: time.Hour, Now: newFakeClock().Now})

	c.Set("a", []byte("1"), "image/png")
	c.Get("a")
	c.Clear()

	stats := c.Stats()
	if stats.Size != 0 || stats.TotalBytes != 0 {
		t.Fatalf("expected empty cache after clear, got %+v", stats)
	}
	if stats.Hits != 1 {
		t.Fatalf("expected counters to survive clear, got %+v", stats)
	}
}

func TestConcurrentAccessKeepsAccountingConsistent(t *testing.T) {
	c := New(Config{MaxEntries: 8, MaxTotalBytes: 1 << 20, TTL: time.Hour, Now: newFakeClock().Now})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
			for j := 0; j < 200; j++ {
				id := ids[(n+j)%len(ids)]
				c.Set(id, []byte("payload"), "image/png")
				c.Get(id)
			}
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	if stats.Size > 8 {
		t.Fatalf("entry budget exceeded: %d", stats.Size)
	}
	if stats.TotalBytes != int64(stats.Size)*int64(len("payload")) {
		t.Fatalf("byte accounting drifted: %+v", stats)
	}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, msg)
}

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func TestEvictionAndMaintenanceAreLogged(t *testing.T) {
	clock := newFakeClock()
	logger := &recordingLogger{}
	c := New(Config{MaxEntries: 2, MaxTotalBytes: 1 << 20, TTL: time.Minute, Now: clock.Now, Logger: logger})

	c.Set("a", []byte("one"), "image/png")
	c.Set("b", []byte("two"), "image/png")
	c.Set("c", []byte("three"), "image/png")

	msgs := logger.messages()
	if len(msgs) != 1 || msgs[0] != "cache.evict" {
		t.Fatalf("expected a single eviction entry, got %v", msgs)
	}

	clock.Advance(2 * time.Minute)
	c.PerformMaintenance()

	msgs = logger.messages()
	if len(msgs) != 2 || msgs[1] != "cache.maintenance" {
		t.Fatalf("expected a maintenance entry, got %v", msgs)
	}
	if stats := c.Stats(); stats.Size != 0 {
		t.Fatalf("expected maintenance to purge expired entries, got %+v", stats)
	}
}

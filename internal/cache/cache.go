package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

const (
	defaultMaxEntries = 100
	defaultMaxBytes   = 50 << 20
)

// Config bounds the cache by entry count, total byte size, and entry age.
type Config struct {
	// MaxEntries caps how many entries the cache holds. Defaults to 100.
	MaxEntries int
	// MaxTotalBytes caps the sum of entry payload sizes. Defaults to 50 MiB.
	MaxTotalBytes int64
	// TTL is the absolute age past which an entry behaves as absent. Zero
	// disables expiry.
	TTL time.Duration
	// Now supplies the clock. Defaults to time.Now; tests inject a fake.
	Now func() time.Time
	// Logger receives eviction and maintenance diagnostics. Defaults to a
	// no-op logger.
	Logger interfaces.Logger
}

// Entry is a cached resource payload together with its media type and the
// timestamps the eviction policies operate on.
type Entry struct {
	ID             string
	Content        []byte
	Mime           string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Stats reports cache effectiveness counters. Size is the live entry count.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Size       int
	TotalBytes int64
}

// Cache is a TTL-aware LRU keyed by resource id. All operations are safe for
// concurrent use; a single mutex serialises byte accounting and recency order.
type Cache struct {
	mu         sync.Mutex
	cfg        Config
	order      *list.List // front = most recently used
	index      map[string]*list.Element
	totalBytes int64
	hits       uint64
	misses     uint64
}

// New constructs a cache with the supplied bounds, applying defaults for
// missing values.
func New(cfg Config) *Cache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	if cfg.MaxTotalBytes <= 0 {
		cfg.MaxTotalBytes = defaultMaxBytes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOp()
	}
	return &Cache{
		cfg:   cfg,
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

// MaxEntryBytes is the largest payload a single entry may hold: half the total
// byte budget. Oversized payloads are rejected outright rather than admitted
// by evicting everything around them.
func (c *Cache) MaxEntryBytes() int64 {
	return c.cfg.MaxTotalBytes / 2
}

// Set stores a payload under id, refreshing recency and evicting from the
// least-recently-used end until both the count and byte budgets hold. An
// oversized payload is silently rejected.
func (c *Cache) Set(id string, content []byte, mime string) {
	if id == "" || int64(len(content)) > c.MaxEntryBytes() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Now()
	if elem, ok := c.index[id]; ok {
		entry := elem.Value.(*Entry)
		c.totalBytes += int64(len(content)) - int64(len(entry.Content))
		entry.Content = content
		entry.Mime = mime
		entry.CreatedAt = now
		entry.LastAccessedAt = now
		c.order.MoveToFront(elem)
	} else {
		entry := &Entry{
			ID:             id,
			Content:        content,
			Mime:           mime,
			CreatedAt:      now,
			LastAccessedAt: now,
		}
		c.index[id] = c.order.PushFront(entry)
		c.totalBytes += int64(len(content))
	}

	c.evictLocked()
}

// Get returns the entry stored under id, promoting it to most recently used.
// An expired entry counts as a miss and is removed.
func (c *Cache) Get(id string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		c.misses++
		return nil, false
	}

	entry := elem.Value.(*Entry)
	now := c.cfg.Now()
	if c.expired(entry, now) {
		c.removeLocked(elem)
		c.misses++
		return nil, false
	}

	entry.LastAccessedAt = now
	c.order.MoveToFront(elem)
	c.hits++

	// Copy the payload too: callers are free to mutate what they get back
	// without corrupting the cached bytes.
	copied := *entry
	copied.Content = append([]byte(nil), entry.Content...)
	return &copied, true
}

// Has reports whether a live entry exists for id without touching recency or
// the hit/miss counters. Expired entries are removed on sight.
func (c *Cache) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		return false
	}
	if c.expired(elem.Value.(*Entry), c.cfg.Now()) {
		c.removeLocked(elem)
		return false
	}
	return true
}

// Clear drops every entry and resets byte accounting. Hit/miss counters are
// preserved so callers can still inspect lifetime effectiveness.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.index = make(map[string]*list.Element)
	c.totalBytes = 0
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Size:       c.order.Len(),
		TotalBytes: c.totalBytes,
	}
}

// HitRatio returns the percentage of accesses served from the cache, or zero
// when no access has occurred.
func (c *Cache) HitRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100
}

// PerformMaintenance proactively purges expired entries so capacity pressure
// never has to discover them one read at a time.
func (c *Cache) PerformMaintenance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Now()
	purged := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if c.expired(elem.Value.(*Entry), now) {
			c.removeLocked(elem)
			purged++
		}
		elem = prev
	}
	if purged > 0 {
		c.cfg.Logger.Debug("cache.maintenance",
			"purged", purged,
			"remaining", c.order.Len(),
		)
	}
}

func (c *Cache) expired(entry *Entry, now time.Time) bool {
	if c.cfg.TTL <= 0 {
		return false
	}
	return now.Sub(entry.CreatedAt) >= c.cfg.TTL
}

func (c *Cache) evictLocked() {
	for c.order.Len() > c.cfg.MaxEntries || c.totalBytes > c.cfg.MaxTotalBytes {
		elem := c.order.Back()
		if elem == nil || c.order.Len() == 1 {
			return
		}
		entry := elem.Value.(*Entry)
		c.removeLocked(elem)
		c.cfg.Logger.Debug("cache.evict",
			"resource_id", entry.ID,
			"bytes", len(entry.Content),
		)
	}
}

func (c *Cache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*Entry)
	c.order.Remove(elem)
	delete(c.index, entry.ID)
	c.totalBytes -= int64(len(entry.Content))
}

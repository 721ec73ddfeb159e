package cache

import (
	"sync"
	"time"

	"github.com/hszk-dev/linkedin-dl/internal/clock"
	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
)

// DefaultTTL is how long an extraction stays valid.
const DefaultTTL = time.Hour

type entry struct {
	extraction *model.Extraction
	insertedAt time.Time
}

// MemoryVideoCache implements VideoCache with a mutex-guarded map.
// Expired entries are treated as absent on read and are only replaced, never purged.
type MemoryVideoCache struct {
	mu      sync.Mutex
	entries map[string]entry

	ttl   time.Duration
	clock clock.Clock
}

// Compile-time verification that MemoryVideoCache implements VideoCache.
var _ VideoCache = (*MemoryVideoCache)(nil)

// NewMemoryVideoCache creates an in-memory cache with the given TTL.
// A nil clock uses the system clock; a non-positive ttl uses DefaultTTL.
func NewMemoryVideoCache(ttl time.Duration, clk clock.Clock) *MemoryVideoCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &MemoryVideoCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clk,
	}
}

// Get returns a copy of the extraction stored under key if it is younger than
// the TTL. The copy shares Info with the cached entry; treat it as read-only.
func (c *MemoryVideoCache) Get(key string) (*model.Extraction, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(e.insertedAt) >= c.ttl {
		return nil, false
	}
	cp := *e.extraction
	return &cp, true
}

// Set stores extraction under key with the current time.
func (c *MemoryVideoCache) Set(key string, extraction *model.Extraction) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{extraction: extraction, insertedAt: now}
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryVideoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Package cache memoizes batch results by their exact input parameters.
// The runner stays a pure function of its inputs; callers decide when to
// reuse a result and when to invalidate. Nothing here is persisted.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hamed0406/certwatch/internal/domain"
)

// Key identifies one batch configuration. Host order does not matter: the
// list is trimmed, deduplicated and sorted before keying, so equivalent
// inputs hit the same entry.
type Key struct {
	hosts    string
	port     int
	warnDays int
	workers  int
}

func NewKey(hosts []string, port, warnDays, workers int) Key {
	hs := make([]string, 0, len(hosts))
	seen := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		hs = append(hs, h)
	}
	sort.Strings(hs)
	return Key{
		hosts:    strings.Join(hs, "\n"),
		port:     port,
		warnDays: warnDays,
		workers:  workers,
	}
}

// Store is the boundary cache port. Swap in another adapter if a run ever
// needs to be shared across processes.
type Store interface {
	Get(k Key) (*domain.BatchResult, bool)
	Put(k Key, res *domain.BatchResult)
	Invalidate(k Key)
	Purge()
}

type entry struct {
	res      *domain.BatchResult
	storedAt time.Time
}

// Memory is an in-process Store with an optional TTL (zero disables expiry).
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[Key]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, m: make(map[Key]entry)}
}

func (c *Memory) Get(k Key) (*domain.BatchResult, bool) {
	c.mu.RLock()
	e, ok := c.m[k]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		c.Invalidate(k)
		return nil, false
	}
	return e.res, true
}

func (c *Memory) Put(k Key, res *domain.BatchResult) {
	c.mu.Lock()
	c.m[k] = entry{res: res, storedAt: time.Now()}
	c.mu.Unlock()
}

func (c *Memory) Invalidate(k Key) {
	c.mu.Lock()
	delete(c.m, k)
	c.mu.Unlock()
}

func (c *Memory) Purge() {
	c.mu.Lock()
	c.m = make(map[Key]entry)
	c.mu.Unlock()
}

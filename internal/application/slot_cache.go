package application

import (
	"sync"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/agenda"
)

// slotCache stores recently computed day-slot listings so repeated grid
// polling does not recompute occupancy while nothing changed. Any agenda or
// lesson write flushes the whole cache.
type slotCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]slotCacheEntry
}

type slotCacheEntry struct {
	slots     []agenda.Slot
	expiresAt time.Time
}

func newSlotCache(ttl time.Duration, maxEntries int, now func() time.Time) *slotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	if now == nil {
		now = time.Now
	}
	return &slotCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]slotCacheEntry),
	}
}

func slotCacheKey(agendaID, date string) string {
	return agendaID + "|" + date
}

func (c *slotCache) Get(key string) ([]agenda.Slot, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneSlots(entry.slots), true
}

func (c *slotCache) Store(key string, slots []agenda.Slot) {
	if c == nil {
		return
	}
	cloned := cloneSlots(slots)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = slotCacheEntry{slots: cloned, expiresAt: expiry}
}

func (c *slotCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]slotCacheEntry)
	c.mu.Unlock()
}

func (c *slotCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *slotCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneSlots(slots []agenda.Slot) []agenda.Slot {
	if len(slots) == 0 {
		return nil
	}
	out := make([]agenda.Slot, len(slots))
	copy(out, slots)
	return out
}

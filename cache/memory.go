package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the fast in-process cache tier. Entries expire lazily on
// Get; when the entry bound is reached, Put evicts the entry closest
// to expiry rather than failing (fast-tier writes are best-effort).
type Memory struct {
	mu         sync.RWMutex
	items      map[string]memEntry
	maxEntries int
}

type memEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithMaxEntries bounds the number of entries held in memory.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) {
		m.maxEntries = n
	}
}

// NewMemory creates a new in-memory cache tier.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		items:      make(map[string]memEntry),
		maxEntries: 1024,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get retrieves a value. Expired entries are removed and reported as misses.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Put stores a value with optional TTL. TTL of 0 means no expiration.
func (m *Memory) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists && m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		m.evictLocked()
	}

	entry := memEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = entry
	return nil
}

// Delete removes the key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Len returns the number of entries (including expired but not yet
// cleaned up). Useful for test assertions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Sweep removes all expired entries. Lazy expiry keeps the cache
// correct without it; Sweep only reclaims space.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range m.items {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(m.items, key)
			removed++
		}
	}
	return removed
}

// evictLocked drops the entry closest to expiry. Entries without
// expiry are only evicted when nothing expiring exists.
// Caller must hold the lock.
func (m *Memory) evictLocked() {
	var victim string
	var victimExpiry time.Time
	first := true

	for key, entry := range m.items {
		if entry.expiresAt.IsZero() {
			if first {
				victim = key
				first = false
			}
			continue
		}
		if first || victimExpiry.IsZero() || entry.expiresAt.Before(victimExpiry) {
			victim = key
			victimExpiry = entry.expiresAt
			first = false
		}
	}

	if victim != "" {
		delete(m.items, victim)
	}
}

// compile-time interface check
var _ Store = (*Memory)(nil)

// Package session holds short-lived, per-owner import state between requests.
//
// An owner is an opaque session key (the web layer issues one per browser).
// Entries expire after a TTL; expired entries are invisible to Get and are
// reclaimed by Sweep, which the server runs on a cron schedule.
package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long import state survives between requests.
const DefaultTTL = time.Hour

// Store is the key-value collaborator used by the import service.
type Store interface {
	Get(ctx context.Context, owner, key string) (any, bool)
	Set(ctx context.Context, owner, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, owner, key string)
	// Take returns and removes the live value in one step, so exactly one
	// caller gets it.
	Take(ctx context.Context, owner, key string) (any, bool)
}

type entry struct {
	value   any
	expires time.Time
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func entryKey(owner, key string) string {
	return owner + "\x00" + key
}

// Get returns the live value for owner/key.
func (m *Memory) Get(_ context.Context, owner, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entryKey(owner, key)
	e, ok := m.entries[k]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, k)
		return nil, false
	}
	return e.value, true
}

// Set stores value for ttl. A non-positive ttl uses DefaultTTL.
func (m *Memory) Set(_ context.Context, owner, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	m.entries[entryKey(owner, key)] = entry{value: value, expires: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Delete removes owner/key if present.
func (m *Memory) Delete(_ context.Context, owner, key string) {
	m.mu.Lock()
	delete(m.entries, entryKey(owner, key))
	m.mu.Unlock()
}

// Take returns the live value for owner/key and removes it.
func (m *Memory) Take(_ context.Context, owner, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entryKey(owner, key)
	e, ok := m.entries[k]
	if !ok {
		return nil, false
	}
	delete(m.entries, k)
	if !m.now().Before(e.expires) {
		return nil, false
	}
	return e.value, true
}

// Sweep drops expired entries and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

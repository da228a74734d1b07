package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nwalden/farescout/internal/flights"
)

// Memory is a bounded in-process store. Entries expire after their TTL and
// are removed lazily on lookup; when the store is full, the oldest-inserted
// entry is evicted to make room. There is no persistence across restarts —
// a cold cache simply triggers a re-fetch.
//
// Insertion-order eviction (not strict LRU) is enough here: the workload is
// a long tail of distinct routes with a short relevance window, so exact
// recency tracking buys nothing.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	order   []string
	max     int
	now     func() time.Time
}

type memoryEntry struct {
	result    *flights.SearchResult
	expiresAt time.Time
}

// NewMemory constructs a Memory store holding at most max entries.
func NewMemory(max int) *Memory {
	return NewMemoryWithClock(max, time.Now)
}

// NewMemoryWithClock constructs a Memory store with an injectable clock.
func NewMemoryWithClock(max int, now func() time.Time) *Memory {
	if max <= 0 {
		max = DefaultSize
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		max:     max,
		now:     now,
	}
}

// Get returns the stored result for key if it has not expired. An expired
// entry is deleted and reported absent.
func (m *Memory) Get(_ context.Context, key string) (*flights.SearchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		m.remove(key)
		return nil, false
	}
	return e.result, true
}

// Put inserts or overwrites the entry for key with expiry now+ttl. If the
// store is full and key is new, the oldest-inserted entry is evicted first.
func (m *Memory) Put(_ context.Context, key string, result *flights.SearchResult, ttl time.Duration) {
	if result == nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists {
		if len(m.entries) >= m.max && len(m.order) > 0 {
			m.remove(m.order[0])
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = memoryEntry{result: result, expiresAt: m.now().Add(ttl)}
}

// Len reports the number of entries currently held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) remove(key string) {
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Ping always succeeds; the store is process-local.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op for the in-process store.
func (m *Memory) Close() error { return nil }

package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	mu      sync.Mutex
	count   int
	start   time.Time
	window  time.Duration
	removed bool
}

// MemoryStore keeps counters in process memory. The map lock only guards
// lookup and insertion; each counter has its own lock for the increment.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

// Increment implements CounterStore.
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	for {
		e := s.entry(key)

		e.mu.Lock()
		if e.removed {
			// Pruned between lookup and lock; retry against the replacement.
			e.mu.Unlock()
			continue
		}
		if e.count == 0 || now.Sub(e.start) >= window {
			e.count = 0
			e.start = now
		}
		e.count++
		e.window = window
		w := Window{Count: e.count, Start: e.start}
		e.mu.Unlock()

		return w, nil
	}
}

func (s *MemoryStore) entry(key string) *memoryEntry {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[key]; !ok {
		e = &memoryEntry{}
		s.entries[key] = e
	}
	return e
}

// Prune implements Pruner.
func (s *MemoryStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		e.mu.Lock()
		if e.count > 0 && now.Sub(e.start) >= e.window {
			e.removed = true
			delete(s.entries, key)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// Len returns the number of live counters.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

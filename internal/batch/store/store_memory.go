package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"creditrisk/pkg/platform/sentinel"
)

type storedResult struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps results in process memory with TTL expiry.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]storedResult
	ttl     time.Duration
	now     func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store whose entries expire after ttl; a
// non-positive ttl means DefaultTTL.
func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		results: make(map[string]storedResult),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores a copy of data under id, replacing any previous entry, and
// drops entries that have already expired.
func (s *MemoryStore) Save(_ context.Context, id string, data []byte) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range s.results {
		if !now.Before(r.expiresAt) {
			delete(s.results, k)
		}
	}
	s.results[resultKey(id)] = storedResult{
		data:      slices.Clone(data),
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

// Load returns a copy of the stored bytes.
func (s *MemoryStore) Load(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[resultKey(id)]
	if !ok || !s.now().Before(r.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	return slices.Clone(r.data), nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

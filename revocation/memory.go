package revocation

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore keeps revocation entries in process memory. It is meant
// for tests and single-process deployments; entries do not survive a
// restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore) error

// WithMemoryClock replaces the time source used for revocation
// timestamps and expiry comparisons.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		s.now = now
		return nil
	}
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) (*MemoryStore, error) {
	store := &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}

	for _, opt := range opts {
		if err := opt(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Record stores an entry for the token, replacing any previous one.
func (s *MemoryStore) Record(ctx context.Context, rawToken, reason string) error {
	entry := newEntry(rawToken, reason, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.TokenHash] = entry
	return nil
}

// IsRevoked reports whether the token has been recorded. Expired
// entries that have not been purged yet still count.
func (s *MemoryStore) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[HashToken(rawToken)]
	return ok, nil
}

// Remove deletes the entry for the token.
func (s *MemoryStore) Remove(ctx context.Context, rawToken string) (bool, error) {
	hash := HashToken(rawToken)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[hash]; !ok {
		return false, nil
	}

	delete(s.entries, hash)
	return true, nil
}

// PurgeExpired drops entries whose natural expiry has passed. Entries
// without an expiry are kept.
func (s *MemoryStore) PurgeExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var purged int64
	for hash, entry := range s.entries {
		if entry.ExpiresAt != nil && entry.ExpiresAt.Before(now) {
			delete(s.entries, hash)
			purged++
		}
	}

	return purged, nil
}

// Stats reports entry counts.
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	stats := Stats{Total: int64(len(s.entries))}
	for _, entry := range s.entries {
		if entry.ExpiresAt != nil && entry.ExpiresAt.Before(now) {
			stats.Expired++
		}
	}
	stats.Active = stats.Total - stats.Expired

	return stats, nil
}

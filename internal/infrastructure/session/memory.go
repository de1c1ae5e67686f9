package session

import (
	"context"
	"sync"
	"time"

	"github.com/cartpilot/backend/internal/domain"
)

// entry holds one session's last ranked results with expiration
type entry struct {
	Results    []domain.Listing
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory session store with TTL support.
// A TTL of zero keeps sessions until the process exits.
type MemoryStore struct {
	data  map[string]entry
	ttl   time.Duration
	mutex sync.RWMutex
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]entry),
		ttl:  ttl,
	}

	// Cleanup goroutine removes expired sessions every 10 minutes
	if ttl > 0 {
		go store.cleanupExpired()
	}

	return store
}

// Get retrieves a session's last results
func (s *MemoryStore) Get(ctx context.Context, sessionID string) ([]domain.Listing, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	e, exists := s.data[sessionID]
	if !exists {
		return nil, domain.ErrSessionMiss
	}

	// Check if expired
	if !e.Expiration.IsZero() && time.Now().After(e.Expiration) {
		return nil, domain.ErrSessionMiss
	}

	return e.Results, nil
}

// Set stores a session's last results, replacing any previous batch
func (s *MemoryStore) Set(ctx context.Context, sessionID string, results []domain.Listing) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Copy so later mutation by the caller cannot leak into the store
	stored := make([]domain.Listing, len(results))
	copy(stored, results)

	e := entry{Results: stored}
	if s.ttl > 0 {
		e.Expiration = time.Now().Add(s.ttl)
	}
	s.data[sessionID] = e

	return nil
}

// Delete removes a session's stored results
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, sessionID)
	return nil
}

// cleanupExpired removes expired sessions periodically
func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for id, e := range s.data {
			if !e.Expiration.IsZero() && now.After(e.Expiration) {
				delete(s.data, id)
			}
		}
		s.mutex.Unlock()
	}
}

// Size returns the current number of tracked sessions (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

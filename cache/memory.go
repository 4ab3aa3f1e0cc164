package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jobfit/backend/models"
)

type memoryEntry struct {
	details   models.JobDetails
	expiresAt time.Time
}

// Memory is an in-process TTL cache
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an in-process cache. A zero ttl keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached details for url
func (m *Memory) Get(ctx context.Context, url string) (*models.JobDetails, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key(url)
	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}

	details := entry.details
	return &details, true, nil
}

// Set stores details for url
func (m *Memory) Set(ctx context.Context, url string, details models.JobDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{details: details}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[Key(url)] = entry

	// Opportunistic sweep keeps the map from growing without bound.
	if len(m.entries)%256 == 0 {
		now := m.now()
		for k, e := range m.entries {
			if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
	return nil
}

// Close is a no-op
func (m *Memory) Close() error { return nil }

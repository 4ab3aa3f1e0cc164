package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobfit/backend/models"
)

// DefaultMemoryCapacity bounds the in-memory analysis history
const DefaultMemoryCapacity = 500

// MemoryAnalysisStore keeps the most recent analyses in a ring buffer
type MemoryAnalysisStore struct {
	mu       sync.RWMutex
	capacity int
	items    []models.JobAnalysis
	next     int
	full     bool
}

// NewMemoryAnalysisStore creates a store holding up to capacity analyses
func NewMemoryAnalysisStore(capacity int) *MemoryAnalysisStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryAnalysisStore{
		capacity: capacity,
		items:    make([]models.JobAnalysis, capacity),
	}
}

// Save records an analysis, assigning an ID and timestamp when missing
func (m *MemoryAnalysisStore) Save(ctx context.Context, analysis *models.JobAnalysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	if analysis.AnalyzedAt.IsZero() {
		analysis.AnalyzedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[m.next] = *analysis
	m.next = (m.next + 1) % m.capacity
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent returns up to limit analyses, newest first
func (m *MemoryAnalysisStore) Recent(ctx context.Context, limit int) ([]models.JobAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := m.next
	if m.full {
		count = m.capacity
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]models.JobAnalysis, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + m.capacity) % m.capacity
		out = append(out, m.items[idx])
	}
	return out, nil
}

// Get returns one analysis by ID
func (m *MemoryAnalysisStore) Get(ctx context.Context, id string) (*models.JobAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.items {
		if item.ID != "" && item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Close is a no-op
func (m *MemoryAnalysisStore) Close() error { return nil }

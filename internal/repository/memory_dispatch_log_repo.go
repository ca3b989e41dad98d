package repository

import (
	"context"
	"sync"

	"github.com/notifyhub/telegram-sender/internal/domain"
)

// MemoryDispatchLogRepository keeps the newest records in memory, dropping
// the oldest once capacity is reached.
type MemoryDispatchLogRepository struct {
	mu       sync.RWMutex
	capacity int
	records  []*domain.DispatchRecord // oldest first
	byID     map[string]*domain.DispatchRecord

	// Optional error override, set in tests to simulate a failing store.
	RecordErr error
}

func NewMemoryDispatchLogRepository(capacity int) *MemoryDispatchLogRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryDispatchLogRepository{
		capacity: capacity,
		byID:     make(map[string]*domain.DispatchRecord),
	}
}

func (m *MemoryDispatchLogRepository) Record(_ context.Context, rec *domain.DispatchRecord) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *rec
	m.records = append(m.records, &clone)
	m.byID[clone.ID] = &clone

	if over := len(m.records) - m.capacity; over > 0 {
		for _, old := range m.records[:over] {
			delete(m.byID, old.ID)
		}
		m.records = append([]*domain.DispatchRecord(nil), m.records[over:]...)
	}
	return nil
}

func (m *MemoryDispatchLogRepository) GetByID(_ context.Context, id string) (*domain.DispatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *MemoryDispatchLogRepository) ListRecent(_ context.Context, limit int) ([]*domain.DispatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]*domain.DispatchRecord, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *m.records[i]
		out = append(out, &clone)
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *MemoryDispatchLogRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

var _ DispatchLogRepository = (*MemoryDispatchLogRepository)(nil)

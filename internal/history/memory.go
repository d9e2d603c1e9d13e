package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/rewriter/internal/types"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]types.RewriteRecord
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]types.RewriteRecord),
		now:     time.Now,
	}
}

// Insert implements Store.
func (m *MemoryStore) Insert(_ context.Context, rec NewRecord) (uuid.UUID, error) {
	id := uuid.New()
	options := append([]types.RewriteOption(nil), rec.Options...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = types.RewriteRecord{
		ID:             id,
		OriginalText:   rec.OriginalText,
		RewriteOptions: options,
		CreatedAt:      m.now(),
		Session:        rec.Session,
	}
	return id, nil
}

// UpdateSelection implements Store.
func (m *MemoryStore) UpdateSelection(_ context.Context, id uuid.UUID, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, found := m.records[id]
	if !found {
		return ErrRecordNotFound
	}
	rec.SelectedOption = &index
	m.records[id] = rec
	return nil
}

// ListBySession implements Store.
func (m *MemoryStore) ListBySession(_ context.Context, session types.SessionID, limit int) ([]types.RewriteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]types.RewriteRecord, 0)
	for _, rec := range m.records {
		if rec.Session == session {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, session types.SessionID, id uuid.UUID) (types.RewriteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, found := m.records[id]
	if !found || rec.Session != session {
		return types.RewriteRecord{}, ErrRecordNotFound
	}
	return rec, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.records[id]; !found {
		return ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

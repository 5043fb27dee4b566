package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

func (m *MemoryStorage) ListWeights(ctx context.Context, userID uuid.UUID, from, to string) ([]storage.WeightEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]storage.WeightEntry, 0)
	for _, w := range m.weights {
		if w.UserID != userID {
			continue
		}
		if from != "" && w.Date < from {
			continue
		}
		if to != "" && w.Date > to {
			continue
		}
		entries = append(entries, w)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

func (m *MemoryStorage) AddWeight(ctx context.Context, entry *storage.WeightEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	m.weights[entry.ID] = *entry
	return nil
}

func (m *MemoryStorage) DeleteWeight(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.weights[id]
	if !ok || w.UserID != userID {
		return storage.ErrNotFound
	}
	delete(m.weights, id)
	return nil
}

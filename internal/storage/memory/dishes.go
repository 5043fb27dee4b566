package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

func (m *MemoryStorage) ListDishes(ctx context.Context, query string) ([]storage.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))

	dishes := make([]storage.Dish, 0, len(m.dishes))
	for _, d := range m.dishes {
		if query != "" && !strings.Contains(strings.ToLower(d.Name), query) {
			continue
		}
		dishes = append(dishes, d)
	}

	sort.Slice(dishes, func(i, j int) bool {
		return dishes[i].Name < dishes[j].Name
	})
	return dishes, nil
}

func (m *MemoryStorage) GetDish(ctx context.Context, id uuid.UUID) (*storage.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.dishes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &d, nil
}

func (m *MemoryStorage) CreateDish(ctx context.Context, dish *storage.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dish.ID == uuid.Nil {
		dish.ID = uuid.New()
	}
	now := time.Now()
	dish.CreatedAt = now
	dish.UpdatedAt = now

	m.dishes[dish.ID] = *dish
	return nil
}

func (m *MemoryStorage) UpdateDish(ctx context.Context, dish *storage.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.dishes[dish.ID]
	if !ok {
		return storage.ErrNotFound
	}
	dish.CreatedAt = existing.CreatedAt
	dish.ImageObjectKey = existing.ImageObjectKey
	dish.ImageContentType = existing.ImageContentType
	dish.UpdatedAt = time.Now()

	m.dishes[dish.ID] = *dish
	return nil
}

func (m *MemoryStorage) DeleteDish(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dishes[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.dishes, id)
	delete(m.dishBlobs, id)

	// Items referencing the dish keep their row but lose the reference,
	// same as ON DELETE SET NULL in the schema.
	for itemID, it := range m.items {
		if it.DishID != nil && *it.DishID == id {
			it.DishID = nil
			m.items[itemID] = it
		}
	}
	return nil
}

func (m *MemoryStorage) SetDishImage(ctx context.Context, id uuid.UUID, objectKey, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.dishes[id]
	if !ok {
		return storage.ErrNotFound
	}
	d.ImageObjectKey = &objectKey
	d.ImageContentType = &contentType
	d.UpdatedAt = time.Now()
	m.dishes[id] = d
	return nil
}

func (m *MemoryStorage) PutDishBlob(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.dishes[id]
	if !ok {
		return storage.ErrNotFound
	}
	m.dishBlobs[id] = dishBlob{data: data, contentType: contentType}
	d.ImageContentType = &contentType
	d.UpdatedAt = time.Now()
	m.dishes[id] = d
	return nil
}

func (m *MemoryStorage) GetDishBlob(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.dishBlobs[id]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return b.data, b.contentType, nil
}

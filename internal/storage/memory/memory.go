package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// MemoryStorage — in-memory реализация всех storage интерфейсов.
// Используется без DATABASE_URL и в тестах.
type MemoryStorage struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]storage.User
	dishes    map[uuid.UUID]storage.Dish
	dishBlobs map[uuid.UUID]dishBlob
	plans     map[uuid.UUID]storage.Plan
	blocks    map[uuid.UUID]storage.Block
	items     map[uuid.UUID]storage.Item
	weights   map[uuid.UUID]storage.WeightEntry
}

type dishBlob struct {
	data        []byte
	contentType string
}

// New создаёт новый MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		users:     make(map[uuid.UUID]storage.User),
		dishes:    make(map[uuid.UUID]storage.Dish),
		dishBlobs: make(map[uuid.UUID]dishBlob),
		plans:     make(map[uuid.UUID]storage.Plan),
		blocks:    make(map[uuid.UUID]storage.Block),
		items:     make(map[uuid.UUID]storage.Item),
		weights:   make(map[uuid.UUID]storage.WeightEntry),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}

// GetUsersStorage returns the users storage.
func (m *MemoryStorage) GetUsersStorage() storage.UsersStorage { return m }

// GetDishesStorage returns the dishes storage.
func (m *MemoryStorage) GetDishesStorage() storage.DishesStorage { return m }

// GetWeightsStorage returns the weights storage.
func (m *MemoryStorage) GetWeightsStorage() storage.WeightsStorage { return m }

// GetPlansStorage returns the plans storage.
func (m *MemoryStorage) GetPlansStorage() storage.PlansStorage { return m }

// GetMealStorage returns the meal blocks/items storage.
func (m *MemoryStorage) GetMealStorage() storage.MealStorage { return m }

func (m *MemoryStorage) ListUsers(ctx context.Context) ([]storage.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]storage.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *MemoryStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStorage) CreateUser(ctx context.Context, user *storage.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()

	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.users, id)

	// Cascade: plans of the user, their blocks and items, weight history.
	for planID, p := range m.plans {
		if p.UserID == id {
			m.deletePlanLocked(planID)
		}
	}
	for wid, w := range m.weights {
		if w.UserID == id {
			delete(m.weights, wid)
		}
	}
	return nil
}

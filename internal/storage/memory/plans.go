package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

func (m *MemoryStorage) ListPlans(ctx context.Context, userID uuid.UUID) ([]storage.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plans := make([]storage.Plan, 0)
	for _, p := range m.plans {
		if p.UserID == userID {
			plans = append(plans, p)
		}
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Date > plans[j].Date // newest first
	})
	return plans, nil
}

func (m *MemoryStorage) GetPlan(ctx context.Context, id uuid.UUID) (*storage.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) GetPlanByDate(ctx context.Context, userID uuid.UUID, date string) (*storage.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.plans {
		if p.UserID == userID && p.Date == date {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) CreatePlan(ctx context.Context, plan *storage.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()

	m.plans[plan.ID] = *plan
	return nil
}

func (m *MemoryStorage) DeletePlan(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[id]; !ok {
		return storage.ErrNotFound
	}
	m.deletePlanLocked(id)
	return nil
}

// deletePlanLocked removes a plan with its blocks and items. Caller holds mu.
func (m *MemoryStorage) deletePlanLocked(planID uuid.UUID) {
	delete(m.plans, planID)
	for blockID, b := range m.blocks {
		if b.PlanID == planID {
			delete(m.blocks, blockID)
			for itemID, it := range m.items {
				if it.BlockID == blockID {
					delete(m.items, itemID)
				}
			}
		}
	}
}

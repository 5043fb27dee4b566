package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// InTx runs fn against a copy of the block/item maps and swaps the copy in
// only when fn succeeds. That gives callers real rollback semantics: a
// failing step leaves the visible state untouched. The storage mutex is held
// for the whole transaction, so concurrent transactions serialize the same
// way the postgres plan-row lock does.
func (m *MemoryStorage) InTx(ctx context.Context, fn func(tx storage.MealTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		parent: m,
		blocks: cloneMap(m.blocks),
		items:  cloneMap(m.items),
	}

	if err := fn(tx); err != nil {
		return err
	}

	m.blocks = tx.blocks
	m.items = tx.items
	return nil
}

func cloneMap[V any](src map[uuid.UUID]V) map[uuid.UUID]V {
	dst := make(map[uuid.UUID]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// memTx — транзакционное представление блоков и позиций.
type memTx struct {
	parent *MemoryStorage
	blocks map[uuid.UUID]storage.Block
	items  map[uuid.UUID]storage.Item
}

func (t *memTx) PlanExists(ctx context.Context, planID uuid.UUID) (bool, error) {
	_, ok := t.parent.plans[planID]
	return ok, nil
}

func (t *memTx) ListBlocks(ctx context.Context, planID uuid.UUID, excludeID *uuid.UUID) ([]storage.Block, error) {
	blocks := make([]storage.Block, 0)
	for _, b := range t.blocks {
		if b.PlanID != planID {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		blocks = append(blocks, b)
	}
	sortBlocks(blocks)
	return blocks, nil
}

func (t *memTx) InsertBlock(ctx context.Context, block *storage.Block) error {
	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	block.CreatedAt = time.Now()
	t.blocks[block.ID] = *block
	return nil
}

func (t *memTx) UpdateBlock(ctx context.Context, block *storage.Block) error {
	existing, ok := t.blocks[block.ID]
	if !ok {
		return storage.ErrNotFound
	}
	block.PlanID = existing.PlanID
	block.CreatedAt = existing.CreatedAt
	t.blocks[block.ID] = *block
	return nil
}

func (t *memTx) DeleteBlocks(ctx context.Context, planID uuid.UUID) error {
	for blockID, b := range t.blocks {
		if b.PlanID != planID {
			continue
		}
		delete(t.blocks, blockID)
		for itemID, it := range t.items {
			if it.BlockID == blockID {
				delete(t.items, itemID)
			}
		}
	}
	return nil
}

func (t *memTx) ListItems(ctx context.Context, blockID uuid.UUID) ([]storage.Item, error) {
	items := make([]storage.Item, 0)
	for _, it := range t.items {
		if it.BlockID == blockID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (t *memTx) InsertItem(ctx context.Context, item *storage.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	t.items[item.ID] = *item
	return nil
}

// ---- non-transactional reads and single-row writes ----

func (m *MemoryStorage) ListBlocks(ctx context.Context, planID uuid.UUID) ([]storage.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blocks := make([]storage.Block, 0)
	for _, b := range m.blocks {
		if b.PlanID == planID {
			blocks = append(blocks, b)
		}
	}
	sortBlocks(blocks)
	return blocks, nil
}

func (m *MemoryStorage) GetBlock(ctx context.Context, id uuid.UUID) (*storage.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blocks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &b, nil
}

func (m *MemoryStorage) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blocks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blocks, id)
	for itemID, it := range m.items {
		if it.BlockID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *MemoryStorage) ListItems(ctx context.Context, blockID uuid.UUID) ([]storage.ItemWithDish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]storage.ItemWithDish, 0)
	for _, it := range m.items {
		if it.BlockID != blockID {
			continue
		}
		row := storage.ItemWithDish{Item: it}
		if it.DishID != nil {
			if d, ok := m.dishes[*it.DishID]; ok {
				dish := d
				row.Dish = &dish
			}
		}
		items = append(items, row)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (m *MemoryStorage) GetItem(ctx context.Context, id uuid.UUID) (*storage.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &it, nil
}

func (m *MemoryStorage) UpdateItem(ctx context.Context, id uuid.UUID, amount *float64, note *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return storage.ErrNotFound
	}
	if amount != nil {
		it.Amount = *amount
	}
	if note != nil {
		it.Note = note
	}
	m.items[id] = it
	return nil
}

func (m *MemoryStorage) DeleteItem(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func sortBlocks(blocks []storage.Block) {
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].TimeStart != blocks[j].TimeStart {
			return blocks[i].TimeStart < blocks[j].TimeStart
		}
		return blocks[i].ID.String() < blocks[j].ID.String()
	})
}

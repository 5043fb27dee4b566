package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nutriplan/backend/internal/storage"
)

// InTx runs fn inside a single database transaction.
func (p *PostgresStorage) InTx(ctx context.Context, fn func(tx storage.MealTx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgMealTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

type pgMealTx struct {
	tx pgx.Tx
}

// PlanExists locks the plan row for the rest of the transaction. Two
// concurrent block writes on one plan serialize here, so an overlap check
// can never race past a commit it did not see.
func (t *pgMealTx) PlanExists(ctx context.Context, planID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := t.tx.QueryRow(ctx, `SELECT id FROM plans WHERE id = $1 FOR UPDATE`, planID).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock plan row: %w", err)
	}

	return true, nil
}

func (t *pgMealTx) ListBlocks(ctx context.Context, planID uuid.UUID, excludeID *uuid.UUID) ([]storage.Block, error) {
	query := `
		SELECT id, plan_id, type, time_start, time_end, created_at
		FROM blocks
		WHERE plan_id = $1 AND ($2::uuid IS NULL OR id <> $2)
		ORDER BY time_start, id
	`

	rows, err := t.tx.Query(ctx, query, planID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	return collectBlocks(rows)
}

func (t *pgMealTx) InsertBlock(ctx context.Context, block *storage.Block) error {
	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	block.CreatedAt = time.Now()

	query := `
		INSERT INTO blocks (id, plan_id, type, time_start, time_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := t.tx.Exec(ctx, query,
		block.ID, block.PlanID, block.Type, block.TimeStart, block.TimeEnd, block.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert block: %w", err)
	}
	return nil
}

func (t *pgMealTx) UpdateBlock(ctx context.Context, block *storage.Block) error {
	query := `
		UPDATE blocks
		SET type = $2, time_start = $3, time_end = $4
		WHERE id = $1
	`

	result, err := t.tx.Exec(ctx, query, block.ID, block.Type, block.TimeStart, block.TimeEnd)
	if err != nil {
		return fmt.Errorf("update block: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *pgMealTx) DeleteBlocks(ctx context.Context, planID uuid.UUID) error {
	// Items go with their blocks via ON DELETE CASCADE.
	if _, err := t.tx.Exec(ctx, `DELETE FROM blocks WHERE plan_id = $1`, planID); err != nil {
		return fmt.Errorf("delete blocks: %w", err)
	}
	return nil
}

func (t *pgMealTx) ListItems(ctx context.Context, blockID uuid.UUID) ([]storage.Item, error) {
	query := `
		SELECT id, block_id, dish_id, amount, note, created_at
		FROM items
		WHERE block_id = $1
		ORDER BY created_at, id
	`

	rows, err := t.tx.Query(ctx, query, blockID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []storage.Item{}
	for rows.Next() {
		var it storage.Item
		if err := rows.Scan(&it.ID, &it.BlockID, &it.DishID, &it.Amount, &it.Note, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (t *pgMealTx) InsertItem(ctx context.Context, item *storage.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()

	query := `
		INSERT INTO items (id, block_id, dish_id, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := t.tx.Exec(ctx, query,
		item.ID, item.BlockID, item.DishID, item.Amount, item.Note, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// ---- non-transactional reads and single-row writes ----

func (p *PostgresStorage) ListBlocks(ctx context.Context, planID uuid.UUID) ([]storage.Block, error) {
	query := `
		SELECT id, plan_id, type, time_start, time_end, created_at
		FROM blocks
		WHERE plan_id = $1
		ORDER BY time_start, id
	`

	rows, err := p.pool.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	return collectBlocks(rows)
}

func (p *PostgresStorage) GetBlock(ctx context.Context, id uuid.UUID) (*storage.Block, error) {
	query := `
		SELECT id, plan_id, type, time_start, time_end, created_at
		FROM blocks
		WHERE id = $1
	`

	var b storage.Block
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.PlanID, &b.Type, &b.TimeStart, &b.TimeEnd, &b.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (p *PostgresStorage) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM blocks WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) ListItems(ctx context.Context, blockID uuid.UUID) ([]storage.ItemWithDish, error) {
	query := `
		SELECT i.id, i.block_id, i.dish_id, i.amount, i.note, i.created_at,
		       d.id, d.name, d.unit, d.calories_per_100, d.proteins_per_100, d.fats_per_100, d.carbs_per_100,
		       d.instruction, d.video_url, d.image_object_key, d.image_content_type, d.created_at, d.updated_at
		FROM items i
		LEFT JOIN dishes d ON d.id = i.dish_id
		WHERE i.block_id = $1
		ORDER BY i.created_at, i.id
	`

	rows, err := p.pool.Query(ctx, query, blockID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []storage.ItemWithDish{}
	for rows.Next() {
		var it storage.ItemWithDish
		var (
			dishID    *uuid.UUID
			name      *string
			unit      *string
			cal       *float64
			prot      *float64
			fat       *float64
			carb      *float64
			instr     *string
			video     *string
			objectKey *string
			imageCT   *string
			createdAt *time.Time
			updatedAt *time.Time
		)

		err := rows.Scan(
			&it.ID, &it.BlockID, &it.DishID, &it.Amount, &it.Note, &it.CreatedAt,
			&dishID, &name, &unit, &cal, &prot, &fat, &carb,
			&instr, &video, &objectKey, &imageCT, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		if dishID != nil {
			it.Dish = &storage.Dish{
				ID:               *dishID,
				Name:             *name,
				Unit:             *unit,
				CaloriesPer100:   *cal,
				ProteinsPer100:   *prot,
				FatsPer100:       *fat,
				CarbsPer100:      *carb,
				Instruction:      instr,
				VideoURL:         video,
				ImageObjectKey:   objectKey,
				ImageContentType: imageCT,
				CreatedAt:        *createdAt,
				UpdatedAt:        *updatedAt,
			}
		}

		items = append(items, it)
	}

	return items, rows.Err()
}

func (p *PostgresStorage) GetItem(ctx context.Context, id uuid.UUID) (*storage.Item, error) {
	query := `
		SELECT id, block_id, dish_id, amount, note, created_at
		FROM items
		WHERE id = $1
	`

	var it storage.Item
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.BlockID, &it.DishID, &it.Amount, &it.Note, &it.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &it, nil
}

func (p *PostgresStorage) UpdateItem(ctx context.Context, id uuid.UUID, amount *float64, note *string) error {
	query := `
		UPDATE items
		SET amount = COALESCE($2, amount), note = COALESCE($3, note)
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query, id, amount, note)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func collectBlocks(rows pgx.Rows) ([]storage.Block, error) {
	blocks := []storage.Block{}
	for rows.Next() {
		var b storage.Block
		if err := rows.Scan(&b.ID, &b.PlanID, &b.Type, &b.TimeStart, &b.TimeEnd, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

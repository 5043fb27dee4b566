package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

func (p *PostgresStorage) ListWeights(ctx context.Context, userID uuid.UUID, from, to string) ([]storage.WeightEntry, error) {
	query := `
		SELECT id, user_id, date, weight_kg, created_at
		FROM weight_history
		WHERE user_id = $1
		  AND ($2 = '' OR date >= $2)
		  AND ($3 = '' OR date <= $3)
		ORDER BY date ASC
	`

	rows, err := p.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	defer rows.Close()

	entries := []storage.WeightEntry{}
	for rows.Next() {
		var w storage.WeightEntry
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.WeightKg, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan weight entry: %w", err)
		}
		entries = append(entries, w)
	}

	return entries, rows.Err()
}

func (p *PostgresStorage) AddWeight(ctx context.Context, entry *storage.WeightEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO weight_history (id, user_id, date, weight_kg, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Date, entry.WeightKg, entry.CreatedAt)
	return err
}

func (p *PostgresStorage) DeleteWeight(ctx context.Context, userID, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx,
		`DELETE FROM weight_history WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

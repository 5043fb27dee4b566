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

func (p *PostgresStorage) ListPlans(ctx context.Context, userID uuid.UUID) ([]storage.Plan, error) {
	query := `
		SELECT id, user_id, date, created_at
		FROM plans
		WHERE user_id = $1
		ORDER BY date DESC
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []storage.Plan{}
	for rows.Next() {
		var plan storage.Plan
		if err := rows.Scan(&plan.ID, &plan.UserID, &plan.Date, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (p *PostgresStorage) GetPlan(ctx context.Context, id uuid.UUID) (*storage.Plan, error) {
	query := `SELECT id, user_id, date, created_at FROM plans WHERE id = $1`

	var plan storage.Plan
	err := p.pool.QueryRow(ctx, query, id).Scan(&plan.ID, &plan.UserID, &plan.Date, &plan.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (p *PostgresStorage) GetPlanByDate(ctx context.Context, userID uuid.UUID, date string) (*storage.Plan, error) {
	query := `SELECT id, user_id, date, created_at FROM plans WHERE user_id = $1 AND date = $2`

	var plan storage.Plan
	err := p.pool.QueryRow(ctx, query, userID, date).Scan(&plan.ID, &plan.UserID, &plan.Date, &plan.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (p *PostgresStorage) CreatePlan(ctx context.Context, plan *storage.Plan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()

	query := `
		INSERT INTO plans (id, user_id, date, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query, plan.ID, plan.UserID, plan.Date, plan.CreatedAt)
	return err
}

func (p *PostgresStorage) DeletePlan(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

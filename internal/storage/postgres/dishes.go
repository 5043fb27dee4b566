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

const dishColumns = `id, name, unit, calories_per_100, proteins_per_100, fats_per_100, carbs_per_100,
	       instruction, video_url, image_object_key, image_content_type, created_at, updated_at`

func scanDish(row pgx.Row) (storage.Dish, error) {
	var d storage.Dish
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Unit,
		&d.CaloriesPer100,
		&d.ProteinsPer100,
		&d.FatsPer100,
		&d.CarbsPer100,
		&d.Instruction,
		&d.VideoURL,
		&d.ImageObjectKey,
		&d.ImageContentType,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (p *PostgresStorage) ListDishes(ctx context.Context, query string) ([]storage.Dish, error) {
	sql := `
		SELECT ` + dishColumns + `
		FROM dishes
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
	`

	rows, err := p.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	dishes := []storage.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}

	return dishes, rows.Err()
}

func (p *PostgresStorage) GetDish(ctx context.Context, id uuid.UUID) (*storage.Dish, error) {
	sql := `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`

	d, err := scanDish(p.pool.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *PostgresStorage) CreateDish(ctx context.Context, dish *storage.Dish) error {
	if dish.ID == uuid.Nil {
		dish.ID = uuid.New()
	}
	if dish.Unit == "" {
		dish.Unit = "г"
	}

	now := time.Now()
	dish.CreatedAt = now
	dish.UpdatedAt = now

	query := `
		INSERT INTO dishes (id, name, unit, calories_per_100, proteins_per_100, fats_per_100, carbs_per_100,
		                    instruction, video_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := p.pool.Exec(ctx, query,
		dish.ID,
		dish.Name,
		dish.Unit,
		dish.CaloriesPer100,
		dish.ProteinsPer100,
		dish.FatsPer100,
		dish.CarbsPer100,
		dish.Instruction,
		dish.VideoURL,
		dish.CreatedAt,
		dish.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) UpdateDish(ctx context.Context, dish *storage.Dish) error {
	dish.UpdatedAt = time.Now()

	query := `
		UPDATE dishes
		SET name = $2, unit = $3, calories_per_100 = $4, proteins_per_100 = $5,
		    fats_per_100 = $6, carbs_per_100 = $7, instruction = $8, video_url = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query,
		dish.ID,
		dish.Name,
		dish.Unit,
		dish.CaloriesPer100,
		dish.ProteinsPer100,
		dish.FatsPer100,
		dish.CarbsPer100,
		dish.Instruction,
		dish.VideoURL,
		dish.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteDish(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) SetDishImage(ctx context.Context, id uuid.UUID, objectKey, contentType string) error {
	query := `
		UPDATE dishes
		SET image_object_key = $2, image_content_type = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query, id, objectKey, contentType, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// PutDishBlob stores image bytes in the database for local blob mode.
func (p *PostgresStorage) PutDishBlob(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	if _, err := p.GetDish(ctx, id); err != nil {
		return err
	}

	query := `
		INSERT INTO dish_images (dish_id, data, content_type, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dish_id) DO UPDATE SET data = $2, content_type = $3
	`

	if _, err := p.pool.Exec(ctx, query, id, data, contentType, time.Now()); err != nil {
		return fmt.Errorf("put dish image: %w", err)
	}

	_, err := p.pool.Exec(ctx,
		`UPDATE dishes SET image_content_type = $2, updated_at = $3 WHERE id = $1`,
		id, contentType, time.Now())
	return err
}

func (p *PostgresStorage) GetDishBlob(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	var data []byte
	var contentType string

	err := p.pool.QueryRow(ctx,
		`SELECT data, content_type FROM dish_images WHERE dish_id = $1`, id).
		Scan(&data, &contentType)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", storage.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	return data, contentType, nil
}

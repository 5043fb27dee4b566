package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nutriplan/backend/internal/storage"
)

// PostgresStorage — Postgres реализация всех storage интерфейсов
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetUsersStorage returns the users storage.
func (p *PostgresStorage) GetUsersStorage() storage.UsersStorage { return p }

// GetDishesStorage returns the dishes storage.
func (p *PostgresStorage) GetDishesStorage() storage.DishesStorage { return p }

// GetWeightsStorage returns the weights storage.
func (p *PostgresStorage) GetWeightsStorage() storage.WeightsStorage { return p }

// GetPlansStorage returns the plans storage.
func (p *PostgresStorage) GetPlansStorage() storage.PlansStorage { return p }

// GetMealStorage returns the meal blocks/items storage.
func (p *PostgresStorage) GetMealStorage() storage.MealStorage { return p }

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]storage.User, error) {
	query := `
		SELECT id, name, email, height_cm, target_weight_kg, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []storage.User{}
	for rows.Next() {
		var u storage.User
		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.HeightCm,
			&u.TargetWeightKg,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (p *PostgresStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	query := `
		SELECT id, name, email, height_cm, target_weight_kg, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u storage.User
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.HeightCm,
		&u.TargetWeightKg,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, user *storage.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, name, email, height_cm, target_weight_kg, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HeightCm,
		user.TargetWeightKg,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET name = $2, email = $3, height_cm = $4, target_weight_kg = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HeightCm,
		user.TargetWeightKg,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

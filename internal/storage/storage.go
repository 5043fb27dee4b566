package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get/Update/Delete operations when the row
// does not exist. Implementations must return exactly this error so
// services can map it to a 404 without knowing the backend.
var ErrNotFound = errors.New("not found")

// User — пользователь сервиса
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HeightCm       *float64
	TargetWeightKg *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Dish — блюдо с нутриентами на 100 единиц
type Dish struct {
	ID              uuid.UUID
	Name            string
	Unit            string // display unit, default "г"
	CaloriesPer100  float64
	ProteinsPer100  float64
	FatsPer100      float64
	CarbsPer100     float64
	Instruction     *string
	VideoURL        *string
	ImageObjectKey  *string // S3 object key (nil when no image or local mode)
	ImageContentType *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Plan — дневной план питания (одна дата на пользователя)
type Plan struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Date      string // YYYY-MM-DD
	CreatedAt time.Time
}

// Block — временной блок внутри плана. Times are normalized HH:MM.
type Block struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Type      string // breakfast, lunch, dinner, snack or free-form
	TimeStart string
	TimeEnd   string
	CreatedAt time.Time
}

// Item — позиция внутри блока. DishID is nil for notes like water.
type Item struct {
	ID        uuid.UUID
	BlockID   uuid.UUID
	DishID    *uuid.UUID
	Amount    float64
	Note      *string
	CreatedAt time.Time
}

// ItemWithDish — item joined with its dish (Dish is nil when DishID is nil).
type ItemWithDish struct {
	Item
	Dish *Dish
}

// WeightEntry — запись истории веса
type WeightEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Date      string // YYYY-MM-DD
	WeightKg  float64
	CreatedAt time.Time
}

// Storage is the top-level handle every backend implements.
type Storage interface {
	// Close закрывает соединение (для Postgres)
	Close() error
}

// UsersStorage — интерфейс для работы с пользователями
type UsersStorage interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// DishesStorage — интерфейс для работы с блюдами
type DishesStorage interface {
	ListDishes(ctx context.Context, query string) ([]Dish, error)
	GetDish(ctx context.Context, id uuid.UUID) (*Dish, error)
	CreateDish(ctx context.Context, dish *Dish) error
	UpdateDish(ctx context.Context, dish *Dish) error
	DeleteDish(ctx context.Context, id uuid.UUID) error

	// SetDishImage records the uploaded image location (S3 mode).
	SetDishImage(ctx context.Context, id uuid.UUID, objectKey, contentType string) error

	// PutDishBlob / GetDishBlob store image bytes when no blob store is
	// configured (local mode).
	PutDishBlob(ctx context.Context, id uuid.UUID, data []byte, contentType string) error
	GetDishBlob(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

// WeightsStorage — интерфейс для истории веса
type WeightsStorage interface {
	ListWeights(ctx context.Context, userID uuid.UUID, from, to string) ([]WeightEntry, error)
	AddWeight(ctx context.Context, entry *WeightEntry) error
	DeleteWeight(ctx context.Context, userID, id uuid.UUID) error
}

// PlansStorage — интерфейс для планов питания (CRUD outside transactions)
type PlansStorage interface {
	ListPlans(ctx context.Context, userID uuid.UUID) ([]Plan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error)
	// GetPlanByDate returns nil, nil when no plan exists for the date.
	GetPlanByDate(ctx context.Context, userID uuid.UUID, date string) (*Plan, error)
	CreatePlan(ctx context.Context, plan *Plan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error
}

// MealTx is the view of meal data inside one transaction. Block writes and
// the overlap checks that guard them always go through a MealTx so the
// check and the write commit or roll back together.
type MealTx interface {
	// PlanExists reports whether the plan row exists. The postgres
	// implementation locks the row (SELECT ... FOR UPDATE) so concurrent
	// block writes on one plan serialize.
	PlanExists(ctx context.Context, planID uuid.UUID) (bool, error)

	// ListBlocks returns the plan's blocks ordered by (time_start, id).
	// Blocks with ID equal to excludeID are omitted.
	ListBlocks(ctx context.Context, planID uuid.UUID, excludeID *uuid.UUID) ([]Block, error)

	InsertBlock(ctx context.Context, block *Block) error
	UpdateBlock(ctx context.Context, block *Block) error

	// DeleteBlocks removes all blocks of a plan (items cascade).
	DeleteBlocks(ctx context.Context, planID uuid.UUID) error

	ListItems(ctx context.Context, blockID uuid.UUID) ([]Item, error)
	InsertItem(ctx context.Context, item *Item) error
}

// MealStorage — интерфейс для блоков и позиций плана
type MealStorage interface {
	// InTx runs fn inside one transaction. fn returning an error rolls
	// everything back.
	InTx(ctx context.Context, fn func(tx MealTx) error) error

	// ListBlocks returns blocks ordered by (time_start, id).
	ListBlocks(ctx context.Context, planID uuid.UUID) ([]Block, error)
	GetBlock(ctx context.Context, id uuid.UUID) (*Block, error)
	DeleteBlock(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, blockID uuid.UUID) ([]ItemWithDish, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, amount *float64, note *string) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

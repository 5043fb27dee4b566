package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

var (
	ErrBlockNotFound = errors.New("block not found")
	ErrDishNotFound  = errors.New("dish not found")
)

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service handles block items. Items carry no interval invariant, so they
// are mutated outside the block transaction machinery.
type Service struct {
	meals  storage.MealStorage
	dishes storage.DishesStorage
}

// NewService creates a new items service.
func NewService(meals storage.MealStorage, dishes storage.DishesStorage) *Service {
	return &Service{meals: meals, dishes: dishes}
}

// List returns the items of a block with dish name/unit joined in.
func (s *Service) List(ctx context.Context, blockID uuid.UUID) ([]ItemDTO, error) {
	list, err := s.meals.ListItems(ctx, blockID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(list))
	for i, it := range list {
		dtos[i] = toItemDTO(it)
	}
	return dtos, nil
}

// Create adds an item to a block. The block must exist; the dish, if
// referenced, must too.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.meals.GetBlock(ctx, req.BlockID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}

	var dish *storage.Dish
	if req.DishID != nil {
		d, err := s.dishes.GetDish(ctx, *req.DishID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrDishNotFound
			}
			return nil, err
		}
		dish = d
	}

	item := &storage.Item{
		BlockID: req.BlockID,
		DishID:  req.DishID,
		Amount:  req.Amount,
		Note:    req.Note,
	}

	err := s.meals.InTx(ctx, func(tx storage.MealTx) error {
		return tx.InsertItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	dto := toItemDTO(storage.ItemWithDish{Item: *item, Dish: dish})
	return &dto, nil
}

// Update changes amount and/or note of an item.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.meals.UpdateItem(ctx, id, req.Amount, req.Note); err != nil {
		return nil, err
	}

	item, err := s.meals.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	var dish *storage.Dish
	if item.DishID != nil {
		if d, err := s.dishes.GetDish(ctx, *item.DishID); err == nil {
			dish = d
		}
	}

	dto := toItemDTO(storage.ItemWithDish{Item: *item, Dish: dish})
	return &dto, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.meals.DeleteItem(ctx, id)
}

func toItemDTO(it storage.ItemWithDish) ItemDTO {
	dto := ItemDTO{
		ID:        it.ID,
		BlockID:   it.BlockID,
		DishID:    it.DishID,
		Amount:    it.Amount,
		Note:      it.Note,
		CreatedAt: it.CreatedAt,
	}
	if it.Dish != nil {
		dto.DishName = &it.Dish.Name
		dto.DishUnit = &it.Dish.Unit
	}
	return dto
}

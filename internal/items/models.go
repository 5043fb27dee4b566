package items

import (
	"time"

	"github.com/google/uuid"
)

type ItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	BlockID   uuid.UUID  `json:"block_id"`
	DishID    *uuid.UUID `json:"dish_id"`
	Amount    float64    `json:"amount"`
	Note      *string    `json:"note,omitempty"`
	DishName  *string    `json:"dish_name,omitempty"`
	DishUnit  *string    `json:"dish_unit,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type CreateItemRequest struct {
	BlockID uuid.UUID  `json:"block_id"`
	DishID  *uuid.UUID `json:"dish_id"`
	Amount  float64    `json:"amount"`
	Note    *string    `json:"note,omitempty"`
}

type UpdateItemRequest struct {
	Amount *float64 `json:"amount,omitempty"`
	Note   *string  `json:"note,omitempty"`
}

type ListItemsResponse struct {
	Items []ItemDTO `json:"items"`
}

func (r *CreateItemRequest) Validate() error {
	if r.BlockID == uuid.Nil {
		return &ValidationError{Field: "block_id", Message: "block_id is required"}
	}
	if r.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	return nil
}

func (r *UpdateItemRequest) Validate() error {
	if r.Amount == nil && r.Note == nil {
		return &ValidationError{Field: "body", Message: "nothing to update"}
	}
	if r.Amount != nil && *r.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	return nil
}

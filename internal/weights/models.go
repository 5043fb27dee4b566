package weights

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type WeightEntryDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	WeightKg  float64   `json:"weight_kg"`
	CreatedAt time.Time `json:"created_at"`
}

type AddWeightRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	Date     string    `json:"date"`
	WeightKg float64   `json:"weight_kg"`
}

type ListWeightsResponse struct {
	Entries []WeightEntryDTO `json:"entries"`
}

func (r *AddWeightRequest) Validate() error {
	if r.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date format, expected YYYY-MM-DD")
	}
	if r.WeightKg <= 0 || r.WeightKg > 500 {
		return fmt.Errorf("weight_kg must be between 0 and 500")
	}
	return nil
}

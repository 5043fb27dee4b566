package dishes

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DishDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	CaloriesPer100 float64   `json:"calories_per_100"`
	ProteinsPer100 float64   `json:"proteins_per_100"`
	FatsPer100     float64   `json:"fats_per_100"`
	CarbsPer100    float64   `json:"carbs_per_100"`
	Instruction    *string   `json:"instruction,omitempty"`
	VideoURL       *string   `json:"video_url,omitempty"`
	HasImage       bool      `json:"has_image"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpsertDishRequest struct {
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
	CaloriesPer100 float64 `json:"calories_per_100"`
	ProteinsPer100 float64 `json:"proteins_per_100"`
	FatsPer100     float64 `json:"fats_per_100"`
	CarbsPer100    float64 `json:"carbs_per_100"`
	Instruction    *string `json:"instruction,omitempty"`
	VideoURL       *string `json:"video_url,omitempty"`
}

type ListDishesResponse struct {
	Dishes []DishDTO `json:"dishes"`
}

func (r *UpsertDishRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Name) > 200 {
		return fmt.Errorf("name must be at most 200 characters")
	}
	if r.CaloriesPer100 < 0 || r.ProteinsPer100 < 0 || r.FatsPer100 < 0 || r.CarbsPer100 < 0 {
		return fmt.Errorf("nutrient rates must be non-negative")
	}
	return nil
}

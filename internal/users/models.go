package users

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	HeightCm       *float64  `json:"height_cm,omitempty"`
	TargetWeightKg *float64  `json:"target_weight_kg,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateUserRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	HeightCm       *float64 `json:"height_cm,omitempty"`
	TargetWeightKg *float64 `json:"target_weight_kg,omitempty"`
}

type UpdateUserRequest struct {
	Name           *string  `json:"name,omitempty"`
	Email          *string  `json:"email,omitempty"`
	HeightCm       *float64 `json:"height_cm,omitempty"`
	TargetWeightKg *float64 `json:"target_weight_kg,omitempty"`
}

type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
}

func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Name) > 200 {
		return fmt.Errorf("name must be at most 200 characters")
	}
	if r.HeightCm != nil && (*r.HeightCm <= 0 || *r.HeightCm > 300) {
		return fmt.Errorf("height_cm must be between 0 and 300")
	}
	if r.TargetWeightKg != nil && (*r.TargetWeightKg <= 0 || *r.TargetWeightKg > 500) {
		return fmt.Errorf("target_weight_kg must be between 0 and 500")
	}
	return nil
}

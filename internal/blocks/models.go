package blocks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BlockDTO struct {
	ID        uuid.UUID `json:"id"`
	PlanID    uuid.UUID `json:"plan_id"`
	Type      string    `json:"type"`
	TimeStart string    `json:"time_start"`
	TimeEnd   string    `json:"time_end"`
	CreatedAt time.Time `json:"created_at"`
}

type ItemInput struct {
	DishID *uuid.UUID `json:"dish_id"`
	Amount float64    `json:"amount"`
	Note   *string    `json:"note,omitempty"`
}

type CreateBlockRequest struct {
	PlanID    uuid.UUID   `json:"plan_id"`
	Type      string      `json:"type"`
	TimeStart string      `json:"time_start"`
	TimeEnd   string      `json:"time_end"`
	Items     []ItemInput `json:"items,omitempty"`
}

type UpdateBlockRequest struct {
	Type      string `json:"type"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
}

type ListBlocksResponse struct {
	Blocks []BlockDTO `json:"blocks"`
}

// ConflictBlock describes the already scheduled block a new one collides with.
type ConflictBlock struct {
	Type      string `json:"type"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
}

type ConflictResponse struct {
	Error         ConflictErrorDetail `json:"error"`
	ExistingBlock ConflictBlock       `json:"existing_block"`
}

type ConflictErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (r *CreateBlockRequest) Validate() error {
	if r.PlanID == uuid.Nil {
		return &ValidationError{Field: "plan_id", Message: "plan_id is required"}
	}
	if strings.TrimSpace(r.Type) == "" {
		return &ValidationError{Field: "type", Message: "type is required"}
	}
	for i, item := range r.Items {
		if item.Amount <= 0 {
			return &ValidationError{Field: "items", Message: fmt.Sprintf("item[%d]: amount must be positive", i)}
		}
	}
	return nil
}

func (r *UpdateBlockRequest) Validate() error {
	if strings.TrimSpace(r.Type) == "" {
		return &ValidationError{Field: "type", Message: "type is required"}
	}
	return nil
}

// parseClock parses a wall-clock value like "8:05" or "08:05" into minutes
// since midnight and the normalized zero-padded "HH:MM" form.
func parseClock(field, value string) (int, string, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, "", &ValidationError{Field: field, Message: fmt.Sprintf("invalid time %q, expected HH:MM", value)}
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, "", &ValidationError{Field: field, Message: fmt.Sprintf("invalid time %q, expected HH:MM", value)}
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, "", &ValidationError{Field: field, Message: fmt.Sprintf("invalid time %q, expected HH:MM", value)}
	}

	if hour < 0 || hour > 23 {
		return 0, "", &ValidationError{Field: field, Message: fmt.Sprintf("hour must be 0-23, got %d", hour)}
	}
	if minute < 0 || minute > 59 {
		return 0, "", &ValidationError{Field: field, Message: fmt.Sprintf("minute must be 0-59, got %d", minute)}
	}

	return hour*60 + minute, fmt.Sprintf("%02d:%02d", hour, minute), nil
}

package plans

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PlanDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePlanRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Date   string    `json:"date"`
}

type CopyPlanRequest struct {
	SourcePlanID uuid.UUID `json:"source_plan_id"`
	TargetPlanID uuid.UUID `json:"target_plan_id"`
}

type ListPlansResponse struct {
	Plans []PlanDTO `json:"plans"`
}

type CopyPlanResponse struct {
	CopiedBlocks int `json:"copied_blocks"`
	CopiedItems  int `json:"copied_items"`
}

func (r *CreatePlanRequest) Validate() error {
	if r.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date format, expected YYYY-MM-DD")
	}
	return nil
}

func (r *CopyPlanRequest) Validate() error {
	if r.SourcePlanID == uuid.Nil {
		return fmt.Errorf("source_plan_id is required")
	}
	if r.TargetPlanID == uuid.Nil {
		return fmt.Errorf("target_plan_id is required")
	}
	if r.SourcePlanID == r.TargetPlanID {
		return fmt.Errorf("source and target plans must differ")
	}
	return nil
}

package plans

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

var (
	ErrDuplicateDate  = errors.New("plan already exists for this date")
	ErrTargetNotFound = errors.New("target plan not found")
	ErrValidation     = errors.New("validation failed")
)

// CopyFailedError hides storage details behind a stable copy failure.
type CopyFailedError struct {
	cause error
}

func (e *CopyFailedError) Error() string { return "plan copy failed" }
func (e *CopyFailedError) Unwrap() error { return e.cause }

// Service handles daily plan lifecycle and duplication.
type Service struct {
	plans storage.PlansStorage
	meals storage.MealStorage
}

// NewService creates a new plans service.
func NewService(plans storage.PlansStorage, meals storage.MealStorage) *Service {
	return &Service{plans: plans, meals: meals}
}

// List returns all plans of a user, newest date first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]PlanDTO, error) {
	list, err := s.plans.ListPlans(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]PlanDTO, len(list))
	for i, p := range list {
		dtos[i] = toPlanDTO(p)
	}
	return dtos, nil
}

// Create creates a plan for a date. A user gets at most one plan per date.
func (s *Service) Create(ctx context.Context, req CreatePlanRequest) (*PlanDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	existing, err := s.plans.GetPlanByDate(ctx, req.UserID, req.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateDate
	}

	plan := &storage.Plan{UserID: req.UserID, Date: req.Date}
	if err := s.plans.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	dto := toPlanDTO(*plan)
	return &dto, nil
}

// Get returns a single plan.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	plan, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toPlanDTO(*plan)
	return &dto, nil
}

// Delete removes a plan with its blocks and items.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.plans.DeletePlan(ctx, id)
}

// Copy replaces the target plan's schedule with a copy of the source plan's
// blocks and their items. Runs in one transaction: the target either ends up
// as an exact copy or stays untouched. Only the target is required to exist;
// a missing or empty source yields an empty target schedule.
func (s *Service) Copy(ctx context.Context, req CopyPlanRequest) (*CopyPlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	var copiedBlocks, copiedItems int

	err := s.meals.InTx(ctx, func(tx storage.MealTx) error {
		exists, err := tx.PlanExists(ctx, req.TargetPlanID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTargetNotFound
		}

		srcBlocks, err := tx.ListBlocks(ctx, req.SourcePlanID, nil)
		if err != nil {
			return err
		}

		if err := tx.DeleteBlocks(ctx, req.TargetPlanID); err != nil {
			return err
		}

		for _, src := range srcBlocks {
			dup := &storage.Block{
				PlanID:    req.TargetPlanID,
				Type:      src.Type,
				TimeStart: src.TimeStart,
				TimeEnd:   src.TimeEnd,
			}
			if err := tx.InsertBlock(ctx, dup); err != nil {
				return err
			}
			copiedBlocks++

			srcItems, err := tx.ListItems(ctx, src.ID)
			if err != nil {
				return err
			}
			for _, it := range srcItems {
				clone := &storage.Item{
					BlockID: dup.ID,
					DishID:  it.DishID,
					Amount:  it.Amount,
					Note:    it.Note,
				}
				if err := tx.InsertItem(ctx, clone); err != nil {
					return err
				}
				copiedItems++
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTargetNotFound) {
			return nil, err
		}
		return nil, &CopyFailedError{cause: err}
	}

	return &CopyPlanResponse{CopiedBlocks: copiedBlocks, CopiedItems: copiedItems}, nil
}

func toPlanDTO(p storage.Plan) PlanDTO {
	return PlanDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Date:      p.Date,
		CreatedAt: p.CreatedAt,
	}
}

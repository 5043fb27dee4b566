package blocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

// Service handles meal block scheduling.
type Service struct {
	meals storage.MealStorage
}

// NewService creates a new blocks service.
func NewService(meals storage.MealStorage) *Service {
	return &Service{meals: meals}
}

// List returns all blocks of a plan ordered by start time.
func (s *Service) List(ctx context.Context, planID uuid.UUID) ([]BlockDTO, error) {
	blks, err := s.meals.ListBlocks(ctx, planID)
	if err != nil {
		return nil, err
	}

	dtos := make([]BlockDTO, len(blks))
	for i, b := range blks {
		dtos[i] = toBlockDTO(b)
	}
	return dtos, nil
}

// Create validates the requested interval against every existing block of the
// plan and inserts the block with its items in one transaction. Intervals are
// half-open: a block ending at 09:00 does not collide with one starting there.
func (s *Service) Create(ctx context.Context, req CreateBlockRequest) (*BlockDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start, normStart, err := parseClock("time_start", req.TimeStart)
	if err != nil {
		return nil, err
	}
	end, normEnd, err := parseClock("time_end", req.TimeEnd)
	if err != nil {
		return nil, err
	}

	block := &storage.Block{
		PlanID:    req.PlanID,
		Type:      req.Type,
		TimeStart: normStart,
		TimeEnd:   normEnd,
	}

	err = s.meals.InTx(ctx, func(tx storage.MealTx) error {
		exists, err := tx.PlanExists(ctx, req.PlanID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPlanNotFound
		}

		existing, err := tx.ListBlocks(ctx, req.PlanID, nil)
		if err != nil {
			return err
		}
		for _, other := range existing {
			os, _, err := parseClock("time_start", other.TimeStart)
			if err != nil {
				return err
			}
			oe, _, err := parseClock("time_end", other.TimeEnd)
			if err != nil {
				return err
			}
			if overlaps(start, end, os, oe) {
				return &ConflictError{Block: other}
			}
		}

		if err := tx.InsertBlock(ctx, block); err != nil {
			return err
		}
		for _, input := range req.Items {
			item := &storage.Item{
				BlockID: block.ID,
				DishID:  input.DishID,
				Amount:  input.Amount,
				Note:    input.Note,
			}
			if err := tx.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toBlockDTO(*block)
	return &dto, nil
}

// Update moves or retypes a block, re-running the overlap check against the
// plan's other blocks. The block itself is excluded so it can keep its slot.
func (s *Service) Update(ctx context.Context, blockID uuid.UUID, req UpdateBlockRequest) (*BlockDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start, normStart, err := parseClock("time_start", req.TimeStart)
	if err != nil {
		return nil, err
	}
	end, normEnd, err := parseClock("time_end", req.TimeEnd)
	if err != nil {
		return nil, err
	}

	current, err := s.meals.GetBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	block := &storage.Block{
		ID:        blockID,
		PlanID:    current.PlanID,
		Type:      req.Type,
		TimeStart: normStart,
		TimeEnd:   normEnd,
		CreatedAt: current.CreatedAt,
	}

	err = s.meals.InTx(ctx, func(tx storage.MealTx) error {
		exists, err := tx.PlanExists(ctx, current.PlanID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPlanNotFound
		}

		existing, err := tx.ListBlocks(ctx, current.PlanID, &blockID)
		if err != nil {
			return err
		}
		for _, other := range existing {
			os, _, err := parseClock("time_start", other.TimeStart)
			if err != nil {
				return err
			}
			oe, _, err := parseClock("time_end", other.TimeEnd)
			if err != nil {
				return err
			}
			if overlaps(start, end, os, oe) {
				return &ConflictError{Block: other}
			}
		}

		return tx.UpdateBlock(ctx, block)
	})
	if err != nil {
		return nil, err
	}

	dto := toBlockDTO(*block)
	return &dto, nil
}

// Delete removes a block and its items.
func (s *Service) Delete(ctx context.Context, blockID uuid.UUID) error {
	return s.meals.DeleteBlock(ctx, blockID)
}

// overlaps reports whether two half-open minute intervals intersect.
// Touching boundaries (end == start) do not count.
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

func toBlockDTO(b storage.Block) BlockDTO {
	return BlockDTO{
		ID:        b.ID,
		PlanID:    b.PlanID,
		Type:      b.Type,
		TimeStart: b.TimeStart,
		TimeEnd:   b.TimeEnd,
		CreatedAt: b.CreatedAt,
	}
}

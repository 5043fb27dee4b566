package weights

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

var ErrValidation = errors.New("validation failed")

// Service handles the weight history log.
type Service struct {
	weights storage.WeightsStorage
}

// NewService creates a new weights service.
func NewService(weights storage.WeightsStorage) *Service {
	return &Service{weights: weights}
}

// List returns weight entries of a user, oldest first, optionally limited
// to a date range.
func (s *Service) List(ctx context.Context, userID uuid.UUID, from, to string) ([]WeightEntryDTO, error) {
	list, err := s.weights.ListWeights(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]WeightEntryDTO, len(list))
	for i, e := range list {
		dtos[i] = toEntryDTO(e)
	}
	return dtos, nil
}

// Add records a weight measurement.
func (s *Service) Add(ctx context.Context, req AddWeightRequest) (*WeightEntryDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	entry := &storage.WeightEntry{
		UserID:   req.UserID,
		Date:     req.Date,
		WeightKg: req.WeightKg,
	}
	if err := s.weights.AddWeight(ctx, entry); err != nil {
		return nil, err
	}

	dto := toEntryDTO(*entry)
	return &dto, nil
}

// Delete removes one entry. The entry must belong to the given user.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.weights.DeleteWeight(ctx, userID, id)
}

func toEntryDTO(e storage.WeightEntry) WeightEntryDTO {
	return WeightEntryDTO{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      e.Date,
		WeightKg:  e.WeightKg,
		CreatedAt: e.CreatedAt,
	}
}

package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/storage"
)

var ErrValidation = errors.New("validation failed")

// Service handles user accounts.
type Service struct {
	users storage.UsersStorage
}

// NewService creates a new users service.
func NewService(users storage.UsersStorage) *Service {
	return &Service{users: users}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]UserDTO, error) {
	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, len(list))
	for i, u := range list {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(*user)
	return &dto, nil
}

// Create registers a user.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	user := &storage.User{
		Name:           req.Name,
		Email:          req.Email,
		HeightCm:       req.HeightCm,
		TargetWeightKg: req.TargetWeightKg,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	dto := toUserDTO(*user)
	return &dto, nil
}

// Update changes only the fields present in the request.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.HeightCm != nil {
		user.HeightCm = req.HeightCm
	}
	if req.TargetWeightKg != nil {
		user.TargetWeightKg = req.TargetWeightKg
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	dto := toUserDTO(*user)
	return &dto, nil
}

// Delete removes a user with all their plans and weight history.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.DeleteUser(ctx, id)
}

func toUserDTO(u storage.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		HeightCm:       u.HeightCm,
		TargetWeightKg: u.TargetWeightKg,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

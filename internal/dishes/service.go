package dishes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/blob"
	"github.com/nutriplan/backend/internal/storage"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedMime = errors.New("unsupported mime type")
	ErrNoImage         = errors.New("dish has no image")
)

// Image is a dish image ready to serve: either a presigned URL or raw bytes.
type Image struct {
	URL         string
	Data        []byte
	ContentType string
}

// Service handles the dish catalog and dish images.
type Service struct {
	dishes      storage.DishesStorage
	blobStore   blob.Store // nil in local mode
	maxUploadMB int
	allowedMime string
	presignTTL  int
}

// NewService creates a new dishes service. A nil blobStore keeps image bytes
// in the database (local mode).
func NewService(dishes storage.DishesStorage, blobStore blob.Store, maxUploadMB int, allowedMime string, presignTTL int) *Service {
	return &Service{
		dishes:      dishes,
		blobStore:   blobStore,
		maxUploadMB: maxUploadMB,
		allowedMime: allowedMime,
		presignTTL:  presignTTL,
	}
}

// List returns dishes, optionally filtered by a case-insensitive name substring.
func (s *Service) List(ctx context.Context, query string) ([]DishDTO, error) {
	list, err := s.dishes.ListDishes(ctx, query)
	if err != nil {
		return nil, err
	}

	dtos := make([]DishDTO, len(list))
	for i, d := range list {
		dtos[i] = toDishDTO(d)
	}
	return dtos, nil
}

// Get returns one dish.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DishDTO, error) {
	dish, err := s.dishes.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDishDTO(*dish)
	return &dto, nil
}

// Create adds a dish to the catalog.
func (s *Service) Create(ctx context.Context, req UpsertDishRequest) (*DishDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	unit := req.Unit
	if unit == "" {
		unit = "г"
	}

	dish := &storage.Dish{
		Name:           req.Name,
		Unit:           unit,
		CaloriesPer100: req.CaloriesPer100,
		ProteinsPer100: req.ProteinsPer100,
		FatsPer100:     req.FatsPer100,
		CarbsPer100:    req.CarbsPer100,
		Instruction:    req.Instruction,
		VideoURL:       req.VideoURL,
	}
	if err := s.dishes.CreateDish(ctx, dish); err != nil {
		return nil, err
	}

	dto := toDishDTO(*dish)
	return &dto, nil
}

// Update replaces a dish's catalog fields. The image is managed separately.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpsertDishRequest) (*DishDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	unit := req.Unit
	if unit == "" {
		unit = "г"
	}

	dish := &storage.Dish{
		ID:             id,
		Name:           req.Name,
		Unit:           unit,
		CaloriesPer100: req.CaloriesPer100,
		ProteinsPer100: req.ProteinsPer100,
		FatsPer100:     req.FatsPer100,
		CarbsPer100:    req.CarbsPer100,
		Instruction:    req.Instruction,
		VideoURL:       req.VideoURL,
	}
	if err := s.dishes.UpdateDish(ctx, dish); err != nil {
		return nil, err
	}

	updated, err := s.dishes.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDishDTO(*updated)
	return &dto, nil
}

// Delete removes a dish. Items referencing it keep their amounts but lose
// the dish reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	dish, err := s.dishes.GetDish(ctx, id)
	if err != nil {
		return err
	}

	if s.blobStore != nil && dish.ImageObjectKey != nil {
		_ = s.blobStore.DeleteObject(ctx, *dish.ImageObjectKey)
	}

	return s.dishes.DeleteDish(ctx, id)
}

// UploadImage stores the dish photo: in S3 when a blob store is configured,
// otherwise in the database.
func (s *Service) UploadImage(ctx context.Context, dishID uuid.UUID, fileHeader *multipart.FileHeader) error {
	if _, err := s.dishes.GetDish(ctx, dishID); err != nil {
		return err
	}

	maxBytes := int64(s.maxUploadMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return ErrFileTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !s.isAllowedMime(contentType) {
		return ErrUnsupportedMime
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if s.blobStore == nil {
		return s.dishes.PutDishBlob(ctx, dishID, data, contentType)
	}

	objectKey := fmt.Sprintf("dishes/%s/image", dishID.String())
	if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	if err := s.dishes.SetDishImage(ctx, dishID, objectKey, contentType); err != nil {
		_ = s.blobStore.DeleteObject(ctx, objectKey)
		return err
	}
	return nil
}

// GetImage returns either a presigned URL (S3 mode) or the image bytes
// (local mode).
func (s *Service) GetImage(ctx context.Context, dishID uuid.UUID) (*Image, error) {
	dish, err := s.dishes.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	if s.blobStore != nil && dish.ImageObjectKey != nil {
		url, err := s.blobStore.PresignGet(ctx, *dish.ImageObjectKey, s.presignTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to presign image URL: %w", err)
		}
		return &Image{URL: url}, nil
	}

	data, contentType, err := s.dishes.GetDishBlob(ctx, dishID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoImage
		}
		return nil, err
	}
	return &Image{Data: data, ContentType: contentType}, nil
}

func (s *Service) isAllowedMime(contentType string) bool {
	for _, allowed := range strings.Split(s.allowedMime, ",") {
		if strings.TrimSpace(allowed) == contentType {
			return true
		}
	}
	return false
}

func toDishDTO(d storage.Dish) DishDTO {
	return DishDTO{
		ID:             d.ID,
		Name:           d.Name,
		Unit:           d.Unit,
		CaloriesPer100: d.CaloriesPer100,
		ProteinsPer100: d.ProteinsPer100,
		FatsPer100:     d.FatsPer100,
		CarbsPer100:    d.CarbsPer100,
		Instruction:    d.Instruction,
		VideoURL:       d.VideoURL,
		HasImage:       d.ImageContentType != nil,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

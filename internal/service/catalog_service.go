package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"splitkb-catalog/internal/domain"
	"splitkb-catalog/internal/repository"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrInvalidKeyboardType = errors.New("unknown keyboard type")
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrCompareCount        = errors.New("comparison requires exactly two keyboards")
	ErrCompareNotFound     = errors.New("one or both keyboards not found")
)

// ImageStore abstracts the keyboard image files behind the catalog.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(name string) error
}

// KeyboardInput carries the writable fields of a keyboard record.
type KeyboardInput struct {
	Name             string
	Price            *int64
	Link             string
	KeyCountRange    string
	KeyboardType     domain.KeyboardType
	IsWireless       bool
	HasCursorControl bool
}

// KeyboardPage is one page of list results.
type KeyboardPage struct {
	Keyboards  []*domain.Keyboard
	Total      int
	Page       int
	TotalPages int
}

// CatalogService defines the keyboard catalog business logic: the
// public read path and the admin mutation path.
type CatalogService interface {
	List(ctx context.Context, filter repository.KeyboardFilter, sortBy domain.SortOption, page, limit int) (*KeyboardPage, error)
	Get(ctx context.Context, id int64) (*domain.Keyboard, error)
	Compare(ctx context.Context, ids []int64) ([]*domain.Keyboard, error)
	Create(ctx context.Context, input KeyboardInput, imageName string, image io.Reader) (*domain.Keyboard, error)
	Update(ctx context.Context, id int64, input KeyboardInput, imageName string, image io.Reader) (*domain.Keyboard, error)
	Delete(ctx context.Context, id int64) error
}

type catalogService struct {
	keyboardRepo repository.KeyboardRepository
	images       ImageStore
	logger       *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(keyboardRepo repository.KeyboardRepository, images ImageStore, logger *zap.Logger) CatalogService {
	return &catalogService{
		keyboardRepo: keyboardRepo,
		images:       images,
		logger:       logger,
	}
}

// List returns one page of keyboards matching the filter.
func (s *catalogService) List(ctx context.Context, filter repository.KeyboardFilter, sortBy domain.SortOption, page, limit int) (*KeyboardPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if !sortBy.Valid() {
		sortBy = domain.SortNameAsc
	}

	keyboards, total, err := s.keyboardRepo.List(ctx, filter, sortBy, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyboards: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &KeyboardPage{
		Keyboards:  keyboards,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// Get returns a single keyboard by ID.
func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Keyboard, error) {
	kb, err := s.keyboardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return kb, nil
}

// Compare resolves exactly two keyboards for side-by-side display.
func (s *catalogService) Compare(ctx context.Context, ids []int64) ([]*domain.Keyboard, error) {
	if len(ids) != 2 || ids[0] == ids[1] {
		return nil, ErrCompareCount
	}

	keyboards, err := s.keyboardRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyboards: %w", err)
	}

	if len(keyboards) != 2 {
		return nil, ErrCompareNotFound
	}

	return keyboards, nil
}

func validateInput(input KeyboardInput) error {
	if input.Price != nil && *input.Price < 0 {
		return ErrNegativePrice
	}
	if !input.KeyboardType.Valid() {
		return ErrInvalidKeyboardType
	}
	return nil
}

// Create stores the image, then inserts the keyboard. A failed insert
// cleans up the just-written image so the store never leaks files.
func (s *catalogService) Create(ctx context.Context, input KeyboardInput, imageName string, image io.Reader) (*domain.Keyboard, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	storedName, err := s.images.Save(imageName, image)
	if err != nil {
		return nil, err
	}

	kb := &domain.Keyboard{
		Name:          input.Name,
		Price:         input.Price,
		Link:          input.Link,
		ImagePath:     storedName,
		KeyCountRange: input.KeyCountRange,
		KeyboardType:  input.KeyboardType,
		Tags: domain.KeyboardTags{
			IsWireless:       input.IsWireless,
			HasCursorControl: input.HasCursorControl,
		},
	}

	if err := s.keyboardRepo.Create(ctx, kb); err != nil {
		if rmErr := s.images.Remove(storedName); rmErr != nil {
			s.logger.Warn("Failed to clean up image after create failure",
				zap.String("image", storedName), zap.Error(rmErr))
		}
		return nil, err
	}

	s.logger.Info("Keyboard created", zap.Int64("id", kb.ID), zap.String("name", kb.Name))
	return kb, nil
}

// Update overwrites a keyboard. A nil image reader keeps the prior
// image; a replacement deletes the old file after the row is updated.
func (s *catalogService) Update(ctx context.Context, id int64, input KeyboardInput, imageName string, image io.Reader) (*domain.Keyboard, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	kb, err := s.keyboardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldImage := ""
	if image != nil {
		storedName, err := s.images.Save(imageName, image)
		if err != nil {
			return nil, err
		}
		oldImage = kb.ImagePath
		kb.ImagePath = storedName
	}

	kb.Name = input.Name
	kb.Price = input.Price
	kb.Link = input.Link
	kb.KeyCountRange = input.KeyCountRange
	kb.KeyboardType = input.KeyboardType
	kb.Tags.IsWireless = input.IsWireless
	kb.Tags.HasCursorControl = input.HasCursorControl

	if err := s.keyboardRepo.Update(ctx, kb); err != nil {
		if oldImage != "" {
			// Row update failed; discard the replacement file instead.
			if rmErr := s.images.Remove(kb.ImagePath); rmErr != nil {
				s.logger.Warn("Failed to clean up image after update failure",
					zap.String("image", kb.ImagePath), zap.Error(rmErr))
			}
		}
		return nil, err
	}

	if oldImage != "" {
		if rmErr := s.images.Remove(oldImage); rmErr != nil {
			s.logger.Warn("Failed to remove replaced image",
				zap.String("image", oldImage), zap.Error(rmErr))
		}
	}

	s.logger.Info("Keyboard updated", zap.Int64("id", kb.ID))
	return kb, nil
}

// Delete removes a keyboard and its image. File removal is best-effort;
// the record is authoritative.
func (s *catalogService) Delete(ctx context.Context, id int64) error {
	kb, err := s.keyboardRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.keyboardRepo.Delete(ctx, id); err != nil {
		return err
	}

	if rmErr := s.images.Remove(kb.ImagePath); rmErr != nil {
		s.logger.Warn("Failed to remove image for deleted keyboard",
			zap.String("image", kb.ImagePath), zap.Error(rmErr))
	}

	s.logger.Info("Keyboard deleted", zap.Int64("id", id))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

const (
	maxCategoryNameLength = 100
	maxCategoryIconLength = 50
)

// CategoryWithCount is a category together with the number of tasks using it.
type CategoryWithCount struct {
	models.TaskCategory
	TaskCount int64
}

// CategoryService manages a user's custom categories
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	UserID uint64
	Name   string
	Color  string
	Icon   string
}

// UpdateCategoryInput represents a partial category update
type UpdateCategoryInput struct {
	Name  *string
	Color *string
	Icon  *string
}

// ListCategories returns the user's categories with their task counts
func (s *CategoryService) ListCategories(ctx context.Context, userID uint64, search, ordering string) ([]CategoryWithCount, error) {
	if !repository.IsValidCategoryOrdering(ordering) {
		return nil, ErrInvalidOrdering
	}

	categories, err := s.categoryRepo.List(ctx, repository.CategoryFilter{
		UserID:   userID,
		Search:   search,
		Ordering: ordering,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return s.withCounts(ctx, userID, categories)
}

// GetCategory returns one of the user's categories
func (s *CategoryService) GetCategory(ctx context.Context, userID, id uint64) (*CategoryWithCount, error) {
	category, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	withCounts, err := s.withCounts(ctx, userID, []models.TaskCategory{*category})
	if err != nil {
		return nil, err
	}
	return &withCounts[0], nil
}

// CreateCategory creates a category after checking its fields and name uniqueness
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryWithCount, error) {
	category := &models.TaskCategory{
		UserID: input.UserID,
		Name:   strings.TrimSpace(input.Name),
		Color:  input.Color,
		Icon:   input.Icon,
	}
	if category.Color == "" {
		category.Color = constants.DefaultCategoryColor
	}
	if category.Icon == "" {
		category.Icon = constants.DefaultCategoryIcon
	}

	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, input.UserID, category.Name, 0); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CategoryWithCount{TaskCategory: *category}, nil
}

// UpdateCategory applies a partial update to one of the user's categories
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id uint64, input UpdateCategoryInput) (*CategoryWithCount, error) {
	category, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Color != nil {
		category.Color = *input.Color
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}

	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, userID, category.Name, category.ID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return s.GetCategory(ctx, userID, category.ID)
}

// DeleteCategory deletes one of the user's categories. Tasks using it fall
// back to their default category label.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id uint64) error {
	if err := s.categoryRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) owned(ctx context.Context, userID, id uint64) (*models.TaskCategory, error) {
	category, err := s.categoryRepo.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, userID uint64, name string, selfID uint64) error {
	existing, err := s.categoryRepo.FindByName(ctx, userID, name)
	if err == nil {
		if existing.ID != selfID {
			return ErrCategoryTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	return nil
}

func (s *CategoryService) withCounts(ctx context.Context, userID uint64, categories []models.TaskCategory) ([]CategoryWithCount, error) {
	ids := make([]uint64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}

	counts, err := s.categoryRepo.CountTasks(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count category tasks: %w", err)
	}

	result := make([]CategoryWithCount, len(categories))
	for i, c := range categories {
		result[i] = CategoryWithCount{TaskCategory: c, TaskCount: counts[c.ID]}
	}
	return result, nil
}

func validateCategory(category *models.TaskCategory) error {
	if category.Name == "" {
		return ErrCategoryNameEmpty
	}
	if len([]rune(category.Name)) > maxCategoryNameLength {
		return ErrCategoryNameTooLong
	}
	if !strings.HasPrefix(category.Color, "#") || len(category.Color) != 7 {
		return ErrInvalidColor
	}
	if len([]rune(category.Icon)) > maxCategoryIconLength {
		return ErrInvalidIcon
	}
	return nil
}

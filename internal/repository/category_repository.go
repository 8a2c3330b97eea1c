package repository

import (
	"context"
	"strings"

	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/gorm"
)

var categoryOrderings = map[string]string{
	"name":        "task_categories.name ASC",
	"-name":       "task_categories.name DESC",
	"created_at":  "task_categories.created_at ASC",
	"-created_at": "task_categories.created_at DESC",
}

// IsValidCategoryOrdering reports whether ordering is accepted by List.
func IsValidCategoryOrdering(ordering string) bool {
	if ordering == "" {
		return true
	}
	_, ok := categoryOrderings[ordering]
	return ok
}

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *models.TaskCategory) error {
	if category.UserID == 0 {
		return ErrMissingOwner
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// FindOwned finds a category by ID among the user's categories
func (r *GormCategoryRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.TaskCategory, error) {
	if userID == 0 {
		return nil, ErrMissingOwner
	}

	var category models.TaskCategory
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy("task_categories", userID)).
		First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName finds the user's category with the given name
func (r *GormCategoryRepository) FindByName(ctx context.Context, userID uint64, name string) (*models.TaskCategory, error) {
	if userID == 0 {
		return nil, ErrMissingOwner
	}

	var category models.TaskCategory
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy("task_categories", userID)).
		Where("task_categories.name = ?", name).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List lists the user's categories, ordered by name unless told otherwise
func (r *GormCategoryRepository) List(ctx context.Context, filter CategoryFilter) ([]models.TaskCategory, error) {
	if filter.UserID == 0 {
		return nil, ErrMissingOwner
	}

	query := r.db.WithContext(ctx).Model(&models.TaskCategory{}).
		Scopes(database.OwnedBy("task_categories", filter.UserID))

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(task_categories.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	orderBy, ok := categoryOrderings[filter.Ordering]
	if !ok {
		orderBy = categoryOrderings["name"]
	}

	var categories []models.TaskCategory
	if err := query.Order(orderBy).Order("task_categories.id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CountTasks counts the user's tasks per custom category
func (r *GormCategoryRepository) CountTasks(ctx context.Context, userID uint64, categoryIDs []uint64) (map[uint64]int64, error) {
	if userID == 0 {
		return nil, ErrMissingOwner
	}

	counts := make(map[uint64]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CustomCategoryID uint64
		Count            int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("custom_category_id, COUNT(*) AS count").
		Scopes(database.OwnedBy("tasks", userID)).
		Where("custom_category_id IN ?", categoryIDs).
		Group("custom_category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CustomCategoryID] = row.Count
	}
	return counts, nil
}

// Update updates a category
func (r *GormCategoryRepository) Update(ctx context.Context, category *models.TaskCategory) error {
	if category.UserID == 0 {
		return ErrMissingOwner
	}
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete nulls the category reference on the user's tasks, then deletes the category
func (r *GormCategoryRepository) Delete(ctx context.Context, userID, id uint64) error {
	if userID == 0 {
		return ErrMissingOwner
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.TaskCategory
		if err := tx.Scopes(database.OwnedBy("task_categories", userID)).First(&category, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("user_id = ? AND custom_category_id = ?", userID, category.ID).
			Update("custom_category_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}

		return tx.Delete(&category).Error
	})
}

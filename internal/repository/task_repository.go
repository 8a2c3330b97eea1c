package repository

import (
	"context"
	"strings"

	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// priorityRank orders priorities from least to most urgent.
const priorityRank = "CASE tasks.priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 WHEN 'urgent' THEN 4 ELSE 0 END"

var taskOrderings = map[string]string{
	"created_at":  "tasks.created_at ASC",
	"-created_at": "tasks.created_at DESC",
	"date":        "tasks.date ASC",
	"-date":       "tasks.date DESC",
	"time":        "tasks.time ASC",
	"-time":       "tasks.time DESC",
	"priority":    priorityRank + " ASC",
	"-priority":   priorityRank + " DESC",
}

// DefaultTaskOrdering is used when a filter names no ordering.
const DefaultTaskOrdering = "-created_at"

// IsValidTaskOrdering reports whether ordering is accepted by List.
func IsValidTaskOrdering(ordering string) bool {
	if ordering == "" {
		return true
	}
	_, ok := taskOrderings[ordering]
	return ok
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.UserID == 0 {
		return ErrMissingOwner
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindOwned finds a task by ID among the user's tasks
func (r *GormTaskRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.Task, error) {
	if userID == 0 {
		return nil, ErrMissingOwner
	}

	var task models.Task
	if err := r.withRelations(r.db.WithContext(ctx)).
		Scopes(database.OwnedBy("tasks", userID)).
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrMissingOwner
	}

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordering := filter.Ordering
	if ordering == "" {
		ordering = DefaultTaskOrdering
	}
	orderBy, ok := taskOrderings[ordering]
	if !ok {
		orderBy = taskOrderings[DefaultTaskOrdering]
	}

	listQuery := r.filtered(ctx, filter).Order(orderBy).Order("tasks.id DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	var tasks []models.Task
	if err := r.withRelations(listQuery).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	if filter.UserID == 0 {
		return 0, ErrMissingOwner
	}

	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if task.UserID == 0 {
		return ErrMissingOwner
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// Delete removes a task owned by userID together with its attachment rows
func (r *GormTaskRepository) Delete(ctx context.Context, userID, id uint64) ([]models.TaskAttachment, error) {
	if userID == 0 {
		return nil, ErrMissingOwner
	}

	var attachments []models.TaskAttachment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Scopes(database.OwnedBy("tasks", userID)).First(&task, id).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", task.ID).Find(&attachments).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAttachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return attachments, nil
}

// filtered builds a fresh query with the owner scope and every filter applied.
func (r *GormTaskRepository) filtered(ctx context.Context, filter TaskFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(database.OwnedBy("tasks", filter.UserID))

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("tasks.status IN ?", filter.Statuses)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.DefaultCategory != nil {
		query = query.Where("tasks.default_category = ?", *filter.DefaultCategory)
	}
	if filter.CustomCategoryID != nil {
		query = query.Where("tasks.custom_category_id = ?", *filter.CustomCategoryID)
	}
	if filter.Date != nil {
		query = query.Where("tasks.date = ?", *filter.Date)
	}
	if filter.DateFrom != nil {
		query = query.Where("tasks.date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("tasks.date <= ?", *filter.DateTo)
	}
	if filter.DateBefore != nil {
		query = query.Where("tasks.date < ?", *filter.DateBefore)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?)", pattern, pattern)
	}

	return query
}

func (r *GormTaskRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("CustomCategory").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_attachments.uploaded_at DESC, task_attachments.id DESC")
		})
}

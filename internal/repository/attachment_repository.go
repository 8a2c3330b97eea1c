package repository

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// Create records attachment metadata
func (r *GormAttachmentRepository) Create(ctx context.Context, attachment *models.TaskAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// FindOwned finds an attachment through its task's owner
func (r *GormAttachmentRepository) FindOwned(ctx context.Context, userID, id uint64) (*models.TaskAttachment, error) {
	if userID == 0 {
		return nil, ErrMissingOwner
	}

	var attachment models.TaskAttachment
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = task_attachments.task_id").
		Where("task_attachments.id = ? AND tasks.user_id = ?", id, userID).
		First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListByTask lists a task's attachments, newest first
func (r *GormAttachmentRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("uploaded_at DESC, id DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Delete removes the attachment row and its content as one unit
func (r *GormAttachmentRepository) Delete(ctx context.Context, attachment *models.TaskAttachment, removeContent func() error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.TaskAttachment{}, attachment.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return removeContent()
	})
}

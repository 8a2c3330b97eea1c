package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/storage"
	"gorm.io/gorm"
)

const defaultContentType = "application/octet-stream"

// UploadFile is a file as reported by the upload transport. Size and
// ContentType are recorded as given; the content is not inspected.
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

func (f UploadFile) validate() error {
	if f.Content == nil {
		return ErrNoFile
	}
	if f.Size > constants.MaxAttachmentSize {
		return ErrFileTooLarge
	}
	return nil
}

// AttachmentService stores and removes task attachments. Attachments are only
// ever reached through a task owned by the caller.
type AttachmentService struct {
	taskRepo       repository.TaskRepository
	attachmentRepo repository.AttachmentRepository
	blobs          storage.BlobStorage
	now            func() time.Time
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	taskRepo repository.TaskRepository,
	attachmentRepo repository.AttachmentRepository,
	blobs storage.BlobStorage,
) *AttachmentService {
	return &AttachmentService{
		taskRepo:       taskRepo,
		attachmentRepo: attachmentRepo,
		blobs:          blobs,
		now:            time.Now,
	}
}

// UploadAttachmentInput represents a single upload to a task
type UploadAttachmentInput struct {
	UserID uint64
	TaskID uint64
	File   *UploadFile
}

// Upload stores the file and records it against one of the user's tasks.
func (s *AttachmentService) Upload(ctx context.Context, input UploadAttachmentInput) (*models.TaskAttachment, error) {
	task, err := s.ownedTask(ctx, input.UserID, input.TaskID)
	if err != nil {
		return nil, err
	}

	if input.File == nil {
		return nil, ErrNoFile
	}
	if err := input.File.validate(); err != nil {
		return nil, err
	}

	return s.store(ctx, task, *input.File)
}

// List returns the attachments of one of the user's tasks, newest first
func (s *AttachmentService) List(ctx context.Context, userID, taskID uint64) ([]models.TaskAttachment, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// Delete removes an attachment's metadata and content together. taskID, when
// non-zero, must be the attachment's task.
func (s *AttachmentService) Delete(ctx context.Context, userID, taskID, attachmentID uint64) error {
	attachment, err := s.attachmentRepo.FindOwned(ctx, userID, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to find attachment: %w", err)
	}
	if taskID != 0 && attachment.TaskID != taskID {
		return ErrAttachmentNotFound
	}

	err = s.attachmentRepo.Delete(ctx, attachment, func() error {
		return s.blobs.Delete(ctx, attachment.File)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to delete attachment %d: %w", attachment.ID, err)
	}
	return nil
}

// URL returns the path an attachment's stored content is served from.
func (s *AttachmentService) URL(key string) string {
	return s.blobs.URL(key)
}

// store writes the content first and the metadata second. If the metadata
// cannot be written the content is removed again, or logged when that fails.
func (s *AttachmentService) store(ctx context.Context, task *models.Task, file UploadFile) (*models.TaskAttachment, error) {
	name := file.Name
	if name == "" {
		name = "file"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	key := storage.AttachmentKey(s.now(), name)
	written, err := s.blobs.Save(ctx, key, io.LimitReader(file.Content, constants.MaxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if written > constants.MaxAttachmentSize {
		s.discard(ctx, key)
		return nil, ErrFileTooLarge
	}

	attachment := &models.TaskAttachment{
		TaskID:   task.ID,
		File:     key,
		FileName: name,
		FileSize: file.Size,
		FileType: contentType,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	return attachment, nil
}

func (s *AttachmentService) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Printf("orphaned attachment content %q: %v", key, err)
	}
}

func (s *AttachmentService) ownedTask(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

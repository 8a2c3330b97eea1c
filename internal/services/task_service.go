package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/storage"
	"gorm.io/gorm"
)

const maxDefaultCategoryLength = 50

// TaskService handles task business logic. Every operation takes the caller's
// user ID and only ever sees that user's tasks.
type TaskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	attachments  *AttachmentService
	blobs        storage.BlobStorage
	now          func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	categoryRepo repository.CategoryRepository,
	attachments *AttachmentService,
	blobs storage.BlobStorage,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		attachments:  attachments,
		blobs:        blobs,
		now:          time.Now,
	}
}

// SetClock replaces the clock used to decide what "today" is.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TaskService) today() models.Date {
	return models.DateOf(s.now())
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID           uint64
	Status           *models.TaskStatus
	Priority         *models.TaskPriority
	DefaultCategory  *string
	CustomCategoryID *uint64
	Date             *models.Date
	Search           string
	Ordering         string
	Page             int
	PageSize         int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description *string
	Category    models.CategoryChoice
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Date        models.Date
	Time        *string
	ReminderAt  *time.Time
	Files       []UploadFile
}

// UpdateTaskInput represents a partial task update. Nil fields are left as they are.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Category         *models.CategoryChoice
	Status           *models.TaskStatus
	Priority         *models.TaskPriority
	Date             *models.Date
	Time             *string
	ClearTime        bool
	ReminderAt       *time.Time
	ClearReminder    bool
}

// ListTasks returns the user's tasks matching the filters, with the total before pagination
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, 0, ErrInvalidPriority
	}
	if !repository.IsValidTaskOrdering(input.Ordering) {
		return nil, 0, ErrInvalidOrdering
	}

	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		UserID:           input.UserID,
		Status:           input.Status,
		Priority:         input.Priority,
		DefaultCategory:  input.DefaultCategory,
		CustomCategoryID: input.CustomCategoryID,
		Date:             input.Date,
		Search:           input.Search,
		Ordering:         input.Ordering,
		Page:             input.Page,
		PageSize:         input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// TodayTasks returns the user's tasks dated today, whatever their status.
func (s *TaskService) TodayTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	return s.view(ctx, todayFilter(userID, s.today()))
}

// UpcomingTasks returns pending tasks dated from today through the next seven days.
func (s *TaskService) UpcomingTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	return s.view(ctx, upcomingFilter(userID, s.today()))
}

// OverdueTasks returns unfinished tasks dated before today. Completed tasks are never overdue.
func (s *TaskService) OverdueTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	return s.view(ctx, overdueFilter(userID, s.today()))
}

// TasksByPriority returns the user's tasks with the given priority, "high" when empty.
func (s *TaskService) TasksByPriority(ctx context.Context, userID uint64, priority models.TaskPriority) ([]models.Task, error) {
	if priority == "" {
		priority = models.TaskPriorityHigh
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}
	return s.view(ctx, priorityFilter(userID, priority))
}

func (s *TaskService) view(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	tasks, _, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns one of the user's tasks
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask validates and creates a task, then stores any files sent with it.
// If a file cannot be stored the task is removed again.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleEmpty
	}
	if input.Date.IsZero() {
		return nil, ErrDateRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	timeOfDay, err := normalizeTimeOfDay(input.Time)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, input.UserID, input.Category); err != nil {
		return nil, err
	}
	for _, file := range input.Files {
		if err := file.validate(); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		UserID:          input.UserID,
		Title:           input.Title,
		Description:     input.Description,
		DefaultCategory: models.DefaultCategory("").Label(),
		Status:          input.Status,
		Priority:        input.Priority,
		Date:            input.Date,
		Time:            timeOfDay,
		ReminderAt:      input.ReminderAt,
	}
	task.SetCategory(input.Category)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	for _, file := range input.Files {
		if _, err := s.attachments.store(ctx, task, file); err != nil {
			if _, delErr := s.deleteTask(ctx, input.UserID, task.ID); delErr != nil {
				log.Printf("failed to roll back task %d after upload error: %v", task.ID, delErr)
			}
			return nil, err
		}
	}

	return s.GetTask(ctx, input.UserID, task.ID)
}

// UpdateTask applies a partial update to one of the user's tasks
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.ClearDescription {
		task.Description = nil
	} else if input.Description != nil {
		task.Description = input.Description
	}
	if input.Category != nil {
		if err := s.checkCategory(ctx, userID, *input.Category); err != nil {
			return nil, err
		}
		task.SetCategory(*input.Category)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, ErrDateRequired
		}
		task.Date = *input.Date
	}
	if input.ClearTime {
		task.Time = nil
	} else if input.Time != nil {
		timeOfDay, err := normalizeTimeOfDay(input.Time)
		if err != nil {
			return nil, err
		}
		task.Time = timeOfDay
	}
	if input.ClearReminder {
		task.ReminderAt = nil
	} else if input.ReminderAt != nil {
		task.ReminderAt = input.ReminderAt
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, userID, task.ID)
}

// ToggleTaskStatus moves a pending task to completed and any other task back to pending.
func (s *TaskService) ToggleTaskStatus(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = task.Status.Toggled()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to toggle status: %w", err)
	}

	return task, nil
}

// DeleteTask deletes one of the user's tasks together with its attachments
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint64) error {
	_, err := s.deleteTask(ctx, userID, taskID)
	return err
}

func (s *TaskService) deleteTask(ctx context.Context, userID, taskID uint64) ([]models.TaskAttachment, error) {
	removed, err := s.taskRepo.Delete(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	keys := make([]string, len(removed))
	for i, a := range removed {
		keys[i] = a.File
	}
	removeBlobs(ctx, s.blobs, keys)

	return removed, nil
}

// checkCategory rejects custom categories the user does not own.
func (s *TaskService) checkCategory(ctx context.Context, userID uint64, choice models.CategoryChoice) error {
	id, ok := choice.CustomID()
	if !ok {
		if len(choice.Label()) > maxDefaultCategoryLength {
			return ErrDefaultCategoryTooLong
		}
		return nil
	}

	if _, err := s.categoryRepo.FindOwned(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForeignCategory
		}
		return fmt.Errorf("failed to verify category: %w", err)
	}
	return nil
}

// normalizeTimeOfDay accepts HH:MM or HH:MM:SS and stores HH:MM:SS.
func normalizeTimeOfDay(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			normalized := t.Format("15:04:05")
			return &normalized, nil
		}
	}
	return nil, ErrInvalidTime
}

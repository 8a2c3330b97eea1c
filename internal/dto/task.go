package dto

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/utils"
)

// URLFunc turns an attachment storage key into an absolute URL
type URLFunc func(key string) string

// AttachmentDTO represents an attachment in API responses
type AttachmentDTO struct {
	ID         uint64    `json:"id"`
	File       string    `json:"file"`
	FileURL    string    `json:"file_url"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64              `json:"id"`
	Title              string              `json:"title"`
	Description        *string             `json:"description"`
	CustomCategory     *uint64             `json:"custom_category"`
	CustomCategoryName *string             `json:"custom_category_name"`
	DefaultCategory    string              `json:"default_category"`
	CategoryName       string              `json:"category_name"`
	Status             models.TaskStatus   `json:"status"`
	Priority           models.TaskPriority `json:"priority"`
	Date               models.Date         `json:"date"`
	Time               *string             `json:"time"`
	ReminderDatetime   *time.Time          `json:"reminder_datetime"`
	ReminderSent       bool                `json:"reminder_sent"`
	Attachments        []AttachmentDTO     `json:"attachments"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToAttachmentDTO converts a TaskAttachment model to AttachmentDTO
func ToAttachmentDTO(attachment models.TaskAttachment, urlFor URLFunc) AttachmentDTO {
	return AttachmentDTO{
		ID:         attachment.ID,
		File:       attachment.File,
		FileURL:    urlFor(attachment.File),
		FileName:   attachment.FileName,
		FileSize:   attachment.FileSize,
		FileType:   attachment.FileType,
		UploadedAt: attachment.UploadedAt,
	}
}

// ToAttachmentDTOs converts a list of attachments
func ToAttachmentDTOs(attachments []models.TaskAttachment, urlFor URLFunc) []AttachmentDTO {
	items := make([]AttachmentDTO, len(attachments))
	for i, attachment := range attachments {
		items[i] = ToAttachmentDTO(attachment, urlFor)
	}
	return items
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, urlFor URLFunc) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		CustomCategory:   task.CustomCategoryID,
		DefaultCategory:  task.DefaultCategory,
		CategoryName:     task.CategoryName(),
		Status:           task.Status,
		Priority:         task.Priority,
		Date:             task.Date,
		Time:             task.Time,
		ReminderDatetime: task.ReminderAt,
		ReminderSent:     task.ReminderSent,
		Attachments:      ToAttachmentDTOs(task.Attachments, urlFor),
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}

	// Include custom category name if preloaded
	if task.CustomCategory != nil {
		name := task.CustomCategory.Name
		dto.CustomCategoryName = &name
	}

	return dto
}

// ToTaskDTOs converts a list of tasks
func ToTaskDTOs(tasks []models.Task, urlFor URLFunc) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, urlFor)
	}
	return items
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64, urlFor URLFunc) TaskListResponse {
	return TaskListResponse{
		Tasks: ToTaskDTOs(tasks, urlFor),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}

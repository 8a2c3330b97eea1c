package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Toggled returns the status a toggle moves to. Completed and in-progress tasks
// fall back to pending; only pending tasks become completed.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskStatusPending {
		return TaskStatusCompleted
	}
	return TaskStatusPending
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []TaskPriority{TaskPriorityUrgent, TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID               uint64       `gorm:"primarykey" json:"id"`
	UserID           uint64       `gorm:"not null;index:idx_tasks_user_date,priority:1;index:idx_tasks_user_status,priority:1;index:idx_tasks_user_priority,priority:1" json:"user_id"`
	Title            string       `gorm:"type:varchar(255);not null" json:"title"`
	Description      *string      `gorm:"type:text" json:"description"`
	CustomCategoryID *uint64      `gorm:"index" json:"custom_category"`
	DefaultCategory  string       `gorm:"type:varchar(50);not null;default:'other'" json:"default_category"`
	Status           TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index:idx_tasks_user_status,priority:2" json:"status"`
	Priority         TaskPriority `gorm:"type:varchar(20);not null;default:'medium';index:idx_tasks_user_priority,priority:2" json:"priority"`
	Date             Date         `gorm:"not null;index:idx_tasks_user_date,priority:2" json:"date"`
	Time             *string      `gorm:"type:varchar(8)" json:"time"`
	ReminderAt       *time.Time   `json:"reminder_datetime"`
	ReminderSent     bool         `gorm:"not null;default:false" json:"reminder_sent"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// Relations
	CustomCategory *TaskCategory    `gorm:"foreignKey:CustomCategoryID;constraint:OnDelete:SET NULL" json:"-"`
	Attachments    []TaskAttachment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

// Category returns the task's category as a CategoryChoice.
func (t *Task) Category() CategoryChoice {
	if t.CustomCategoryID != nil {
		return CustomCategory(*t.CustomCategoryID)
	}
	return DefaultCategory(t.DefaultCategory)
}

// SetCategory stores a CategoryChoice in the task's columns. A default label
// clears the custom reference; a custom reference leaves the stored label alone.
func (t *Task) SetCategory(c CategoryChoice) {
	if id, ok := c.CustomID(); ok {
		t.CustomCategoryID = &id
		t.CustomCategory = nil
		return
	}
	t.CustomCategoryID = nil
	t.CustomCategory = nil
	t.DefaultCategory = c.Label()
}

// CategoryName is the custom category's name when one is linked and loaded,
// otherwise the fallback label.
func (t *Task) CategoryName() string {
	if t.CustomCategoryID != nil && t.CustomCategory != nil {
		return t.CustomCategory.Name
	}
	return t.DefaultCategory
}

package repository

import (
	"context"
	"errors"

	"github.com/taskflow/taskflow-api/internal/models"
)

// ErrMissingOwner is returned when a task or category query is attempted
// without an owner. Every such query must be scoped to a user.
var ErrMissingOwner = errors.New("repository: query is not scoped to an owner")

// TaskRepository defines the interface for task data access.
// Every method is scoped to the owning user.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindOwned finds a task by ID among the user's tasks, with its category and attachments
	FindOwned(ctx context.Context, userID, id uint64) (*models.Task, error)

	// List retrieves tasks matching the filter, with the total count before pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Count counts tasks matching the filter
	Count(ctx context.Context, filter TaskFilter) (int64, error)

	// Update saves the task's own columns
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task and its attachment rows, returning the removed attachments
	Delete(ctx context.Context, userID, id uint64) ([]models.TaskAttachment, error)
}

// TaskFilter holds filtering options for listing tasks.
// DateFrom and DateTo are inclusive, DateBefore is exclusive.
type TaskFilter struct {
	UserID           uint64
	Status           *models.TaskStatus
	Statuses         []models.TaskStatus
	Priority         *models.TaskPriority
	DefaultCategory  *string
	CustomCategoryID *uint64
	Date             *models.Date
	DateFrom         *models.Date
	DateTo           *models.Date
	DateBefore       *models.Date
	Search           string
	Ordering         string
	Page             int
	PageSize         int
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *models.TaskCategory) error

	// FindOwned finds a category by ID among the user's categories
	FindOwned(ctx context.Context, userID, id uint64) (*models.TaskCategory, error)

	// FindByName finds the user's category with exactly this name
	FindByName(ctx context.Context, userID uint64, name string) (*models.TaskCategory, error)

	// List lists the user's categories
	List(ctx context.Context, filter CategoryFilter) ([]models.TaskCategory, error)

	// CountTasks returns the number of the user's tasks referencing each category
	CountTasks(ctx context.Context, userID uint64, categoryIDs []uint64) (map[uint64]int64, error)

	// Update updates a category
	Update(ctx context.Context, category *models.TaskCategory) error

	// Delete unlinks the category from the user's tasks and deletes it
	Delete(ctx context.Context, userID, id uint64) error
}

// CategoryFilter holds filtering options for listing categories
type CategoryFilter struct {
	UserID   uint64
	Search   string
	Ordering string
}

// AttachmentRepository defines the interface for attachment data access.
// Attachments have no owner column; ownership goes through tasks.user_id.
type AttachmentRepository interface {
	// Create records attachment metadata
	Create(ctx context.Context, attachment *models.TaskAttachment) error

	// FindOwned finds an attachment whose task belongs to the user
	FindOwned(ctx context.Context, userID, id uint64) (*models.TaskAttachment, error)

	// ListByTask lists a task's attachments, newest first
	ListByTask(ctx context.Context, taskID uint64) ([]models.TaskAttachment, error)

	// Delete removes the metadata row and runs removeContent in the same
	// transaction; an error from removeContent rolls the row back.
	Delete(ctx context.Context, attachment *models.TaskAttachment, removeContent func() error) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username (exact, case-sensitive match)
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update saves the user's columns
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user with all categories, tasks and attachment rows,
	// returning the storage keys of the removed attachments
	Delete(ctx context.Context, id uint64) ([]string, error)
}

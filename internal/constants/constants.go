package constants

const (
	// ContextKeyUserID is the key used for the authenticated user ID in both the
	// gin context and the session.
	ContextKeyUserID = "user_id"
	// ContextKeyTask holds the owned task loaded by RequireTaskOwnership.
	ContextKeyTask = "task"

	SessionCookieName = "taskflow_session"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxAttachmentSize is the largest accepted upload, in bytes.
	MaxAttachmentSize int64 = 10 * 1024 * 1024

	// UpcomingWindowDays is how far ahead the upcoming view looks, inclusive.
	UpcomingWindowDays = 7

	DefaultCategoryLabel = "other"
	DefaultCategoryColor = "#3B82F6"
	DefaultCategoryIcon  = "fa-folder"

	AttachmentKeyPrefix = "task_attachments"
)

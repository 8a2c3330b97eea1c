package services

import "errors"

// Error kinds. Every error a service returns on purpose wraps exactly one of
// these, so callers can classify it with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Validation errors
var (
	ErrUsernameRequired        = newError(ErrValidation, "username is required")
	ErrUsernameTooLong         = newError(ErrValidation, "username must be at most 150 characters")
	ErrEmailRequired           = newError(ErrValidation, "email is required")
	ErrPasswordTooShort        = newError(ErrValidation, "password too short")
	ErrCurrentPasswordRequired = newError(ErrValidation, "current_password is required to change the password")
	ErrTitleEmpty              = newError(ErrValidation, "title cannot be empty")
	ErrInvalidStatus           = newError(ErrValidation, "status must be one of pending, in_progress, completed")
	ErrInvalidPriority         = newError(ErrValidation, "priority must be one of low, medium, high, urgent")
	ErrInvalidTime             = newError(ErrValidation, "time must be formatted as HH:MM or HH:MM:SS")
	ErrDateRequired            = newError(ErrValidation, "date is required")
	ErrInvalidOrdering         = newError(ErrValidation, "unsupported ordering")
	ErrForeignCategory         = newError(ErrValidation, "you can only use your own categories")
	ErrCategoryNameEmpty       = newError(ErrValidation, "category name cannot be empty")
	ErrCategoryNameTooLong     = newError(ErrValidation, "category name must be at most 100 characters")
	ErrInvalidColor            = newError(ErrValidation, "color must be in hex format (#RRGGBB)")
	ErrInvalidIcon             = newError(ErrValidation, "icon must be at most 50 characters")
	ErrDefaultCategoryTooLong  = newError(ErrValidation, "default_category must be at most 50 characters")
	ErrNoFile                  = newError(ErrValidation, "no file provided")
	ErrFileTooLarge            = newError(ErrValidation, "file size must be less than 10MB")
)

// Not found errors
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrTaskNotFound       = newError(ErrNotFound, "task not found")
	ErrCategoryNotFound   = newError(ErrNotFound, "category not found")
	ErrAttachmentNotFound = newError(ErrNotFound, "attachment not found")
)

// Conflict errors
var (
	ErrUsernameTaken = newError(ErrConflict, "username already exists")
	ErrEmailTaken    = newError(ErrConflict, "email already exists")
	ErrAccountTaken  = newError(ErrConflict, "username or email already exists")
	ErrCategoryTaken = newError(ErrConflict, "a category with this name already exists")
)

// Auth errors
var (
	ErrInvalidCredentials = newError(ErrAuth, "invalid username or password")
	ErrWrongPassword      = newError(ErrAuth, "current password is incorrect")
	ErrInvalidToken       = newError(ErrAuth, "invalid or expired token")
)

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/services"
)

const attachmentFileField = "file"

// AttachmentHandler serves the attachments of a task loaded by RequireTaskOwnership.
type AttachmentHandler struct {
	attachmentService *services.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

func (h *AttachmentHandler) urlFor(c *gin.Context) dto.URLFunc {
	return func(key string) string {
		return absoluteURL(c, h.attachmentService.URL(key))
	}
}

// ListAttachments returns the task's attachments, newest first
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	attachments, err := h.attachmentService.List(c.Request.Context(), task.UserID, task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTOs(attachments, h.urlFor(c)))
}

// UploadAttachment stores the multipart "file" field against the task
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	input := services.UploadAttachmentInput{
		UserID: task.UserID,
		TaskID: task.ID,
	}

	header, err := c.FormFile(attachmentFileField)
	switch {
	case err == nil:
		content, err := header.Open()
		if err != nil {
			apierrors.BadRequest(c, "Failed to read uploaded file")
			return
		}
		defer content.Close()
		file := uploadFileFrom(header, content)
		input.File = &file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no file: the service reports it
	default:
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	attachment, err := h.attachmentService.Upload(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*attachment, h.urlFor(c)))
}

// DeleteAttachment removes an attachment and its stored content
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	attachmentID, ok := parseIDParam(c, "attachment_id", "attachment ID")
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), task.UserID, task.ID, attachmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	noContent(c)
}

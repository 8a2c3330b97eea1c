package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/dto"
	apierrors "github.com/taskflow/taskflow-api/internal/errors"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/services"
	"github.com/taskflow/taskflow-api/internal/utils"
)

const attachmentFilesField = "attachment_files"

// TaskHandler serves the task endpoints. Every task it touches belongs to the caller.
type TaskHandler struct {
	taskService       *services.TaskService
	attachmentService *services.AttachmentService
	statsService      *services.StatisticsService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(
	taskService *services.TaskService,
	attachmentService *services.AttachmentService,
	statsService *services.StatisticsService,
) *TaskHandler {
	return &TaskHandler{
		taskService:       taskService,
		attachmentService: attachmentService,
		statsService:      statsService,
	}
}

func (h *TaskHandler) urlFor(c *gin.Context) dto.URLFunc {
	return func(key string) string {
		return absoluteURL(c, h.attachmentService.URL(key))
	}
}

// ListTasks returns the caller's tasks, filtered, ordered and paginated
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input := services.ListTasksInput{
		UserID:   userID,
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if label := c.Query("default_category"); label != "" {
		input.DefaultCategory = &label
	}
	if raw := c.Query("custom_category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid custom_category")
			return
		}
		input.CustomCategoryID = &id
	}
	if raw := c.Query("date"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total, h.urlFor(c)))
}

// TodayTasks returns tasks dated today
func (h *TaskHandler) TodayTasks(c *gin.Context) {
	h.respondView(c, h.taskService.TodayTasks)
}

// UpcomingTasks returns pending tasks in the next seven days
func (h *TaskHandler) UpcomingTasks(c *gin.Context) {
	h.respondView(c, h.taskService.UpcomingTasks)
}

// OverdueTasks returns unfinished tasks dated before today
func (h *TaskHandler) OverdueTasks(c *gin.Context) {
	h.respondView(c, h.taskService.OverdueTasks)
}

// TasksByPriority returns tasks with the priority named by ?priority=, high by default
func (h *TaskHandler) TasksByPriority(c *gin.Context) {
	priority := models.TaskPriority(c.Query("priority"))
	h.respondView(c, func(ctx context.Context, userID uint64) ([]models.Task, error) {
		return h.taskService.TasksByPriority(ctx, userID, priority)
	})
}

func (h *TaskHandler) respondView(c *gin.Context, view func(ctx context.Context, userID uint64) ([]models.Task, error)) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	tasks, err := view(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks, h.urlFor(c)))
}

// Statistics returns counts over the caller's tasks
func (h *TaskHandler) Statistics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTask returns a task loaded by RequireTaskOwnership
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.urlFor(c)))
}

type createTaskRequest struct {
	Title            string     `json:"title" form:"title"`
	Description      *string    `json:"description" form:"description"`
	CustomCategory   *uint64    `json:"custom_category" form:"custom_category"`
	DefaultCategory  string     `json:"default_category" form:"default_category"`
	Status           string     `json:"status" form:"status"`
	Priority         string     `json:"priority" form:"priority"`
	Date             string     `json:"date" form:"date"`
	Time             *string    `json:"time" form:"time"`
	ReminderDatetime *time.Time `json:"reminder_datetime" form:"reminder_datetime" time_format:"2006-01-02T15:04:05Z07:00"`
}

// CreateTask creates a task from JSON or from a multipart form carrying attachment_files
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	input := services.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    models.DefaultCategory(req.DefaultCategory),
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		Time:        req.Time,
		ReminderAt:  req.ReminderDatetime,
	}
	// An empty form select binds as 0, which means no custom category.
	if req.CustomCategory != nil && *req.CustomCategory != 0 {
		input.Category = models.CustomCategory(*req.CustomCategory)
	}
	if req.Date != "" {
		date, err := models.ParseDate(req.Date)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = date
	}

	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		form, err := c.MultipartForm()
		if err != nil {
			apierrors.BadRequest(c, "Invalid multipart form")
			return
		}
		files, closeAll, err := openUploads(form.File[attachmentFilesField])
		defer closeAll()
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Files = files
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, h.urlFor(c)))
}

// UpdateTask applies a partial update. Fields sent as null are cleared where
// the field is optional.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var rawReq map[string]json.RawMessage
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := parseTaskUpdate(rawReq, task)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), task.UserID, task.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated, h.urlFor(c)))
}

// ToggleStatus flips a task between pending and completed
func (h *TaskHandler) ToggleStatus(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	toggled, err := h.taskService.ToggleTaskStatus(c.Request.Context(), task.UserID, task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*toggled, h.urlFor(c)))
}

// DeleteTask deletes a task and its attachments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.UserID, task.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	noContent(c)
}

// parseTaskUpdate turns the raw PATCH body into an UpdateTaskInput.
func parseTaskUpdate(raw map[string]json.RawMessage, task *models.Task) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if value, ok := raw["title"]; ok {
		title, _, err := decodeNullableString(value, "title")
		if err != nil {
			return input, err
		}
		if title == nil {
			empty := ""
			title = &empty
		}
		input.Title = title
	}

	if value, ok := raw["description"]; ok {
		description, isNull, err := decodeNullableString(value, "description")
		if err != nil {
			return input, err
		}
		input.ClearDescription = isNull
		input.Description = description
	}

	label := task.DefaultCategory
	_, labelSent := raw["default_category"]
	if labelSent {
		sent, _, err := decodeNullableString(raw["default_category"], "default_category")
		if err != nil {
			return input, err
		}
		if sent != nil {
			label = *sent
		}
	}
	if value, ok := raw["custom_category"]; ok {
		var id *uint64
		if err := json.Unmarshal(value, &id); err != nil {
			return input, errors.New("custom_category must be a category ID or null")
		}
		choice := models.DefaultCategory(label)
		if id != nil {
			choice = models.CustomCategory(*id)
		}
		input.Category = &choice
	} else if labelSent {
		choice := models.DefaultCategory(label)
		input.Category = &choice
	}

	if value, ok := raw["status"]; ok {
		status, _, err := decodeNullableString(value, "status")
		if err != nil {
			return input, err
		}
		s := models.TaskStatus("")
		if status != nil {
			s = models.TaskStatus(*status)
		}
		input.Status = &s
	}

	if value, ok := raw["priority"]; ok {
		priority, _, err := decodeNullableString(value, "priority")
		if err != nil {
			return input, err
		}
		p := models.TaskPriority("")
		if priority != nil {
			p = models.TaskPriority(*priority)
		}
		input.Priority = &p
	}

	if value, ok := raw["date"]; ok {
		var date models.Date
		if string(value) != "null" {
			if err := json.Unmarshal(value, &date); err != nil {
				return input, errors.New("date must be formatted as YYYY-MM-DD")
			}
		}
		input.Date = &date
	}

	if value, ok := raw["time"]; ok {
		timeOfDay, isNull, err := decodeNullableString(value, "time")
		if err != nil {
			return input, err
		}
		input.ClearTime = isNull || (timeOfDay != nil && strings.TrimSpace(*timeOfDay) == "")
		input.Time = timeOfDay
	}

	if value, ok := raw["reminder_datetime"]; ok {
		var reminder *time.Time
		if err := json.Unmarshal(value, &reminder); err != nil {
			return input, errors.New("reminder_datetime must be an RFC 3339 timestamp or null")
		}
		input.ClearReminder = reminder == nil
		input.ReminderAt = reminder
	}

	return input, nil
}

func decodeNullableString(value json.RawMessage, field string) (*string, bool, error) {
	var s *string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, false, fmt.Errorf("%s must be a string", field)
	}
	return s, s == nil, nil
}

// openUploads opens every uploaded file. The returned func closes whatever was opened.
func openUploads(headers []*multipart.FileHeader) ([]services.UploadFile, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to read uploaded file %q", header.Filename)
		}
		opened = append(opened, f)
		files = append(files, uploadFileFrom(header, f))
	}
	return files, closeAll, nil
}

func uploadFileFrom(header *multipart.FileHeader, content multipart.File) services.UploadFile {
	return services.UploadFile{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
}

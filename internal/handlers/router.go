package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/services"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth        *services.AuthService
	Users       *services.UserService
	Tasks       *services.TaskService
	Categories  *services.CategoryService
	Attachments *services.AttachmentService
	Statistics  *services.StatisticsService
}

// RegisterRoutes mounts the health check and every /api route on r.
func RegisterRoutes(r *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.Users)
	taskHandler := NewTaskHandler(svc.Tasks, svc.Attachments, svc.Statistics)
	categoryHandler := NewCategoryHandler(svc.Categories)
	attachmentHandler := NewAttachmentHandler(svc.Attachments)

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireTask := middleware.RequireTaskOwnership(svc.Tasks)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "TaskFlow API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/profile", requireAuth, authHandler.GetProfile)
			auth.PATCH("/profile", requireAuth, authHandler.UpdateProfile)
			auth.DELETE("/profile", requireAuth, authHandler.DeleteAccount)
		}

		categories := api.Group("/categories")
		categories.Use(requireAuth)
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PATCH("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/today", taskHandler.TodayTasks)
			tasks.GET("/upcoming", taskHandler.UpcomingTasks)
			tasks.GET("/overdue", taskHandler.OverdueTasks)
			tasks.GET("/by_priority", taskHandler.TasksByPriority)
			tasks.GET("/statistics", taskHandler.Statistics)
			tasks.GET("/:id", requireTask, taskHandler.GetTask)
			tasks.PATCH("/:id", requireTask, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireTask, taskHandler.DeleteTask)
			tasks.PATCH("/:id/toggle_status", requireTask, taskHandler.ToggleStatus)
			tasks.GET("/:id/attachments", requireTask, attachmentHandler.ListAttachments)
			tasks.POST("/:id/attachments", requireTask, attachmentHandler.UploadAttachment)
			tasks.DELETE("/:id/attachments/:attachment_id", requireTask, attachmentHandler.DeleteAttachment)
		}
	}
}

package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/handlers"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/services"
	"github.com/taskflow/taskflow-api/internal/storage"
	"github.com/taskflow/taskflow-api/internal/token"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	blobs, err := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		log.Fatalf("Failed to prepare media storage: %v", err)
	}

	r := gin.Default()
	r.MaxMultipartMemory = 16 << 20
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	attachmentService := services.NewAttachmentService(taskRepo, attachmentRepo, blobs)

	handlers.RegisterRoutes(r, handlers.Services{
		Auth:        services.NewAuthService(userRepo, tokens),
		Users:       services.NewUserService(userRepo, blobs),
		Tasks:       services.NewTaskService(taskRepo, categoryRepo, attachmentService, blobs),
		Categories:  services.NewCategoryService(categoryRepo),
		Attachments: attachmentService,
		Statistics:  services.NewStatisticsService(taskRepo),
	})
	r.Static(cfg.MediaURL, blobs.Root())

	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore keeps sessions in Redis when REDIS_HOST is set and in
// signed cookies otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
		log.Printf("Sessions stored in Redis at %s", redisAddr)
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// Package server assembles the HTTP router.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/config"
	"github.com/yukikurage/task-manager-api/internal/handlers"
	"github.com/yukikurage/task-manager-api/internal/middleware"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"github.com/yukikurage/task-manager-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers on top of db.
func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenRepo, cfg.BcryptCost)
	taskService := services.NewTaskService(taskRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppVersion)
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.AllowedOrigins()),
	)
	r.NoRoute(handlers.NotFound)

	requireAuth := middleware.RequireAuth(authService)
	loadTask := middleware.LoadTask(taskService)

	api := r.Group("/api/v1")
	{
		api.Any("", healthHandler.Health)
		api.Any("/", healthHandler.Health)

		// Auth routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", requireAuth, authHandler.Logout)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", loadTask, taskHandler.GetTask)
			tasks.PUT("/:id", loadTask, taskHandler.UpdateTask)
			tasks.PATCH("/:id", loadTask, taskHandler.UpdateTask)
			tasks.DELETE("/:id", loadTask, taskHandler.DeleteTask)
			tasks.POST("/:id/assign", loadTask, taskHandler.AssignTask)
		}
	}

	return r
}

package main

import (
	"github.com/collabtrack/collabtrack/internal/config"
	"github.com/collabtrack/collabtrack/internal/handlers"
	"github.com/collabtrack/collabtrack/internal/models"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/internal/utils"
	"github.com/collabtrack/collabtrack/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue  services.TaskQueue
	worker     *services.Worker
	inviteCron *cron.Cron

	authHandler         *handlers.AuthHandler
	projectHandler      *handlers.ProjectHandler
	taskHandler         *handlers.TaskHandler
	commentHandler      *handlers.CommentHandler
	notificationHandler *handlers.NotificationHandler
	uploadHandler       *handlers.UploadHandler
	userHandler         *handlers.UserHandler
	systemLogHandler    *handlers.SystemLogHandler
	systemConfigHandler *handlers.SystemConfigHandler
	wsHandler           *handlers.WSHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(&cfg.LDAP); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	db := models.GetDB()

	// Initialize system logger
	services.InitSystemLogger(db)

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(db)

	// Start invite expiry sweeper
	inviteCron := services.StartInviteSweeper(db)

	// Core services
	hub := services.GetHub()
	scope := services.NewScopeService(db)
	notificationService := services.NewNotificationService(db, hub)

	// Initialize task queue for notification fan-out (Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.ProcessFanout)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notificationService.ProcessFanout)
			worker.Start()
		}
	}

	authService := services.NewAuthService(db, &cfg.JWT)
	projectService := services.NewProjectService(db, scope, notificationService)
	taskService := services.NewTaskService(db, scope, notificationService)
	commentService := services.NewCommentService(db, scope, notificationService)
	uploadService := services.NewUploadService(db, scope, notificationService, &cfg.Upload)
	userService := services.NewUserService(db)
	systemLogService := services.NewSystemLogService(db)
	systemConfigService := services.NewSystemConfigService(db)

	// Create default admin user
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		taskQueue:  taskQueue,
		worker:     worker,
		inviteCron: inviteCron,

		authHandler:         handlers.NewAuthHandler(authService),
		projectHandler:      handlers.NewProjectHandler(projectService),
		taskHandler:         handlers.NewTaskHandler(taskService),
		commentHandler:      handlers.NewCommentHandler(commentService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		uploadHandler:       handlers.NewUploadHandler(uploadService),
		userHandler:         handlers.NewUserHandler(userService),
		systemLogHandler:    handlers.NewSystemLogHandler(systemLogService),
		systemConfigHandler: handlers.NewSystemConfigHandler(systemConfigService),
		wsHandler:           handlers.NewWSHandler(hub, scope),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.inviteCron != nil {
		s.inviteCron.Stop()
	}

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}

package main

import (
	"github.com/collabtrack/collabtrack/internal/config"
	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "collabtrack"})
	})

	// Uploaded attachments
	r.Static("/uploads", cfg.Upload.Dir)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.POST("/logout", svc.authHandler.Logout)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Realtime channel (token validated during the upgrade)
		api.GET("/ws", svc.wsHandler.Serve)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.GetByID)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Project members and invites
			protected.GET("/projects/:id/members", svc.projectHandler.ListMembers)
			protected.POST("/projects/:id/members", svc.projectHandler.InviteMember)
			protected.PUT("/projects/:id/members/:userId", svc.projectHandler.UpdateMemberRole)
			protected.DELETE("/projects/:id/members/:userId", svc.projectHandler.RemoveMember)

			// Tasks
			protected.GET("/tasks", svc.taskHandler.List)
			protected.GET("/tasks/:id", svc.taskHandler.GetByID)
			protected.POST("/tasks", svc.taskHandler.Create)
			protected.PUT("/tasks/:id", svc.taskHandler.Update)
			protected.DELETE("/tasks/:id", svc.taskHandler.Delete)

			// Time tracking
			protected.GET("/tasks/:id/time-entries", svc.taskHandler.ListTimeEntries)
			protected.POST("/tasks/:id/time-entries", svc.taskHandler.AddTimeEntry)

			// Comments
			protected.GET("/tasks/:id/comments", svc.commentHandler.List)
			protected.POST("/tasks/:id/comments", svc.commentHandler.Create)
			protected.PUT("/comments/:id", svc.commentHandler.Update)
			protected.DELETE("/comments/:id", svc.commentHandler.Delete)

			// Attachments
			protected.GET("/tasks/:id/attachments", svc.uploadHandler.List)
			protected.POST("/tasks/:id/attachments", svc.uploadHandler.Upload)
			protected.DELETE("/attachments/:id", svc.uploadHandler.Delete)

			// Notifications
			protected.GET("/notifications", svc.notificationHandler.List)
			protected.GET("/notifications/unread-count", svc.notificationHandler.UnreadCount)
			protected.PUT("/notifications/mark-all-read", svc.notificationHandler.MarkAllRead)
			protected.PUT("/notifications/:id/read", svc.notificationHandler.MarkRead)
			protected.DELETE("/notifications/:id", svc.notificationHandler.Delete)
			protected.DELETE("/notifications", svc.notificationHandler.ClearAll)

			// Users (self-service)
			protected.GET("/users/search", svc.userHandler.Search)
			protected.PUT("/users/profile", svc.userHandler.UpdateProfile)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Users
			admin.GET("/users", svc.userHandler.List)
			admin.GET("/users/:id", svc.userHandler.GetByID)
			admin.POST("/users", svc.userHandler.Create)
			admin.PUT("/users/:id", svc.userHandler.Update)
			admin.DELETE("/users/:id", svc.userHandler.Delete)

			// System Logs
			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", svc.systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", svc.systemLogHandler.SetRetention)

			// System Config
			admin.GET("/system-config/ldap", svc.systemConfigHandler.GetLDAPConfig)
			admin.PUT("/system-config/ldap", svc.systemConfigHandler.UpdateLDAPConfig)
		}
	}
}

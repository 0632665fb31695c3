package main

import (
	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/handlers"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	db := models.GetDB()
	userHandler := handlers.NewUserHandler(db)
	teamHandler := handlers.NewTeamHandler(db)
	trainingHandler := handlers.NewTrainingHandler(db)
	planHandler := handlers.NewPlanHandler(db)
	assignmentHandler := handlers.NewAssignmentHandler(db)
	postHandler := handlers.NewPostHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)

			// Users
			protected.GET("/users", userHandler.Search)
			protected.GET("/users/:id", userHandler.Get)
			protected.PUT("/users/:id", userHandler.Update)
			protected.DELETE("/users/:id", userHandler.Delete)

			// Teams
			protected.POST("/teams", teamHandler.Create)
			protected.GET("/teams", teamHandler.List)
			protected.GET("/teams/:id", teamHandler.Get)
			protected.PUT("/teams/:id", teamHandler.Update)
			protected.DELETE("/teams/:id", teamHandler.Delete)

			// Memberships
			protected.GET("/teams/:id/members", teamHandler.ListMembers)
			protected.POST("/teams/:id/members", teamHandler.AddMember)
			protected.PUT("/teams/:id/members/:memberId", teamHandler.UpdateMember)

			// Invitations
			protected.POST("/teams/:id/invitations", teamHandler.CreateInvitation)
			protected.GET("/teams/:id/invitations", teamHandler.ListInvitations)
			protected.DELETE("/invitations/:invitationId", teamHandler.RevokeInvitation)
			protected.POST("/invitations/accept", teamHandler.AcceptInvitation)

			// Team feed
			protected.POST("/teams/:id/posts", postHandler.Create)
			protected.GET("/teams/:id/posts", postHandler.ListFeed)
			protected.GET("/posts/:id", postHandler.Get)
			protected.DELETE("/posts/:id", postHandler.Delete)
			protected.POST("/poll-options/:optionId/vote", postHandler.Vote)

			// Training types
			protected.GET("/training-types", trainingHandler.ListTypes)
			protected.POST("/training-types", trainingHandler.CreateType)
			protected.DELETE("/training-types/:id", trainingHandler.DeleteType)

			// Trainings
			protected.POST("/trainings", trainingHandler.Create)
			protected.GET("/trainings", trainingHandler.ListOwn)
			protected.GET("/trainings/:id", trainingHandler.Get)
			protected.PUT("/trainings/:id", trainingHandler.Update)
			protected.DELETE("/trainings/:id", trainingHandler.Delete)
			protected.POST("/trainings/:id/share", trainingHandler.Share)

			// Training plans
			protected.POST("/plans", planHandler.Create)
			protected.GET("/plans", planHandler.ListOwn)
			protected.GET("/plans/:id", planHandler.Get)
			protected.PUT("/plans/:id", planHandler.Update)
			protected.DELETE("/plans/:id", planHandler.Delete)
			protected.GET("/teams/:id/plans", planHandler.ListByTeam)

			// Assignments
			protected.POST("/assignments", assignmentHandler.Create)
			protected.GET("/assignments", assignmentHandler.ListOwn)
			protected.GET("/assignments/:id", assignmentHandler.Get)
			protected.PUT("/assignments/:id/status", assignmentHandler.Transition)
			protected.PUT("/assignments/:id/progress", assignmentHandler.UpdateProgress)

			// Notifications
			protected.GET("/notifications", notificationHandler.List)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		}
	}
}

package main

import (
	"github.com/teamfit/backend/internal/config"
	"github.com/teamfit/backend/internal/handlers"
	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/internal/utils"
	"github.com/teamfit/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	jwtCfg        *config.JWTConfig
	notifications *services.NotificationService
	scheduler     *services.SchedulerService
	taskQueue     services.TaskQueue
	worker        *services.Worker
	authHandler   *handlers.AuthHandler
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
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	notificationService := services.NewNotificationService(models.GetDB())

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.ProcessFanOutTask)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notificationService.ProcessFanOutTask)
			worker.Start()
		}
	}

	// Start the overdue assignment sweep
	var scheduler *services.SchedulerService
	if cfg.Scheduler.Enabled {
		scheduler = services.NewSchedulerService(models.GetDB(),
			services.NewAssignmentService(models.GetDB()), cfg.Scheduler.OverdueSpec)
		if err := scheduler.Start(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start overdue sweep")
		}
	}

	return &appServices{
		jwtCfg:        &cfg.JWT,
		notifications: notificationService,
		scheduler:     scheduler,
		taskQueue:     taskQueue,
		worker:        worker,
		authHandler:   handlers.NewAuthHandler(models.GetDB(), &cfg.JWT),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	logger.Info().Msg("Schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}

package models

import (
	"fmt"

	"github.com/teamfit/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Team{},
		&TeamMember{},
		&TrainingType{},
		&Training{},
		&TrainingPlan{},
		&TrainingPlanItem{},
		&TrainingAssignment{},
		&TrainingShare{},
		&TeamPost{},
		&PollOption{},
		&PollVote{},
		&Notification{},
		&TeamInvitation{},
		&SchedulerLock{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the built-in public training types if none exist.
func SeedDefaultData() error {
	var count int64
	DB.Model(&TrainingType{}).Where("is_public = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	defaults := []TrainingType{
		{Name: "Running", IsPublic: true},
		{Name: "Cycling", IsPublic: true},
		{Name: "Swimming", IsPublic: true},
		{Name: "Strength", IsPublic: true},
		{Name: "Mobility", IsPublic: true},
	}

	for _, tt := range defaults {
		if err := DB.Create(&tt).Error; err != nil {
			return err
		}
	}
	return nil
}

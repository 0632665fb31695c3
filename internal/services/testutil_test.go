package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test. A single
// connection keeps concurrent test goroutines serialized the way a real
// database with row locks would.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.TrainingType{},
		&models.Training{},
		&models.TrainingPlan{},
		&models.TrainingPlanItem{},
		&models.TrainingAssignment{},
		&models.TrainingShare{},
		&models.TeamPost{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Notification{},
		&models.TeamInvitation{},
		&models.SchedulerLock{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	testUserSeq++
	user, err := NewUserService(db).Create(&CreateUserRequest{
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		Username: fmt.Sprintf("user%d", testUserSeq),
		Password: "password1234",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestTeam makes a team through the service so the creator lands in
// it as admin.
func createTestTeam(t *testing.T, db *gorm.DB, creatorID string) *models.Team {
	t.Helper()
	team, err := NewTeamService(db).Create(&CreateTeamRequest{Name: "Test Team"}, creatorID)
	if err != nil {
		t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// addTestMember enrolls a user directly with the given role.
func addTestMember(t *testing.T, db *gorm.DB, teamID, userID string, role models.MemberRole) {
	t.Helper()
	active := true
	member := models.TeamMember{TeamID: teamID, UserID: userID, Role: role, IsActive: &active}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to add test member: %v", err)
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", s, err)
	}
	return ts
}

func createTestPlan(t *testing.T, db *gorm.DB, creatorID string) *models.TrainingPlan {
	t.Helper()
	plan, err := NewPlanService(db).Create(&CreatePlanRequest{Title: "Base Plan"}, creatorID)
	if err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

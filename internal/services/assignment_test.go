package services

import (
	"errors"
	"testing"
	"time"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func createTestAssignment(t *testing.T, db *gorm.DB, assignerID, assigneeID string) *models.TrainingAssignment {
	t.Helper()
	plan := createTestPlan(t, db, assignerID)
	assignment, err := NewAssignmentService(db).Create(&CreateAssignmentRequest{
		PlanID:     plan.ID,
		AssignedTo: assigneeID,
		StartDate:  time.Now(),
	}, assignerID)
	if err != nil {
		t.Fatalf("failed to create test assignment: %v", err)
	}
	return assignment
}

func TestAssignmentCreate_NotifiesAssignee(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)

	assignment := createTestAssignment(t, db, assigner.ID, assignee.ID)
	if assignment.Status != models.AssignmentActive {
		t.Errorf("status = %q, expected active", assignment.Status)
	}
	if assignment.Type != models.AssignmentOneTime {
		t.Errorf("type = %q, expected one_time", assignment.Type)
	}

	var notifications []models.Notification
	db.Where("user_id = ?", assignee.ID).Find(&notifications)
	if len(notifications) != 1 || notifications[0].Type != models.NotificationTrainingAssigned {
		t.Errorf("expected one training_assigned notification, got %v", notifications)
	}
}

func TestAssignmentCreate_OneTimeRejectsPeriodicConfig(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	plan := createTestPlan(t, db, assigner.ID)

	_, err := NewAssignmentService(db).Create(&CreateAssignmentRequest{
		PlanID:         plan.ID,
		AssignedTo:     assignee.ID,
		Type:           models.AssignmentOneTime,
		StartDate:      time.Now(),
		PeriodicConfig: datatypes.JSON(`{"frequency":"weekly","occurrences":4}`),
	}, assigner.ID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() error = %v, expected ErrValidation", err)
	}
}

func TestAssignmentCreate_PeriodicNeedsConfig(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	plan := createTestPlan(t, db, assigner.ID)
	svc := NewAssignmentService(db)

	_, err := svc.Create(&CreateAssignmentRequest{
		PlanID:     plan.ID,
		AssignedTo: assignee.ID,
		Type:       models.AssignmentPeriodic,
		StartDate:  time.Now(),
	}, assigner.ID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() without config error = %v, expected ErrValidation", err)
	}

	if _, err := svc.Create(&CreateAssignmentRequest{
		PlanID:         plan.ID,
		AssignedTo:     assignee.ID,
		Type:           models.AssignmentPeriodic,
		StartDate:      time.Now(),
		PeriodicConfig: datatypes.JSON(`{"frequency":"weekly","occurrences":4}`),
	}, assigner.ID); err != nil {
		t.Errorf("Create() with valid config error = %v", err)
	}
}

func TestAssignmentCreate_EndBeforeStart(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	plan := createTestPlan(t, db, assigner.ID)

	start := time.Now()
	end := start.Add(-24 * time.Hour)
	_, err := NewAssignmentService(db).Create(&CreateAssignmentRequest{
		PlanID:     plan.ID,
		AssignedTo: assignee.ID,
		StartDate:  start,
		EndDate:    &end,
	}, assigner.ID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() error = %v, expected ErrValidation", err)
	}
}

func TestAssignmentCreate_TeamScopedNeedsTrainer(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db)
	member := createTestUser(t, db)
	team := createTestTeam(t, db, admin.ID)
	addTestMember(t, db, team.ID, member.ID, models.RoleMember)
	plan := createTestPlan(t, db, member.ID)

	_, err := NewAssignmentService(db).Create(&CreateAssignmentRequest{
		PlanID:     plan.ID,
		AssignedTo: admin.ID,
		TeamID:     &team.ID,
		StartDate:  time.Now(),
	}, member.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Create() by plain member error = %v, expected ErrForbidden", err)
	}
}

func TestAssignmentTransition_Table(t *testing.T) {
	tests := []struct {
		name    string
		from    models.AssignmentStatus
		to      models.AssignmentStatus
		allowed bool
	}{
		{"active to completed", models.AssignmentActive, models.AssignmentCompleted, true},
		{"active to paused", models.AssignmentActive, models.AssignmentPaused, true},
		{"paused to active", models.AssignmentPaused, models.AssignmentActive, true},
		{"overdue to completed", models.AssignmentOverdue, models.AssignmentCompleted, true},
		{"active to overdue is sweep-only", models.AssignmentActive, models.AssignmentOverdue, false},
		{"completed is terminal", models.AssignmentCompleted, models.AssignmentActive, false},
		{"paused to completed", models.AssignmentPaused, models.AssignmentCompleted, false},
		{"overdue to paused", models.AssignmentOverdue, models.AssignmentPaused, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			assigner := createTestUser(t, db)
			assignee := createTestUser(t, db)
			assignment := createTestAssignment(t, db, assigner.ID, assignee.ID)
			if err := db.Model(&models.TrainingAssignment{}).Where("id = ?", assignment.ID).
				Update("status", tt.from).Error; err != nil {
				t.Fatal(err)
			}

			_, err := NewAssignmentService(db).Transition(assignment.ID, assignee.ID, tt.to)
			if tt.allowed && err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if !tt.allowed && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Transition(%s -> %s) error = %v, expected ErrInvalidTransition", tt.from, tt.to, err)
			}
		})
	}
}

func TestAssignmentTransition_StampsCompletedAt(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	assignment := createTestAssignment(t, db, assigner.ID, assignee.ID)
	svc := NewAssignmentService(db)

	done, err := svc.Transition(assignment.ID, assignee.ID, models.AssignmentCompleted)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if done.CompletedAt == nil {
		t.Error("CompletedAt should be stamped on completion")
	}

	// Assigner gets the completion notification.
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", assigner.ID, models.NotificationTrainingCompleted).
		Count(&count)
	if count != 1 {
		t.Errorf("completion notifications = %d, expected 1", count)
	}
}

func TestAssignmentTransition_PauseLeavesCompletedAtEmpty(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	assignment := createTestAssignment(t, db, assigner.ID, assignee.ID)

	paused, err := NewAssignmentService(db).Transition(assignment.ID, assignee.ID, models.AssignmentPaused)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if paused.CompletedAt != nil {
		t.Error("CompletedAt must stay empty on pause")
	}
}

func TestAssignmentTransition_PartiesOnly(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	stranger := createTestUser(t, db)
	assignment := createTestAssignment(t, db, assigner.ID, assignee.ID)
	svc := NewAssignmentService(db)

	_, err := svc.Transition(assignment.ID, stranger.ID, models.AssignmentCompleted)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Transition() by stranger error = %v, expected ErrForbidden", err)
	}

	if _, err := svc.Transition(assignment.ID, assigner.ID, models.AssignmentPaused); err != nil {
		t.Errorf("Transition() by assigner error = %v", err)
	}
}

func TestUpdateProgress_AssigneeOnly(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	assignment := createTestAssignment(t, db, assigner.ID, assignee.ID)
	svc := NewAssignmentService(db)

	progress := datatypes.JSON(`{"percent":50,"note":"halfway"}`)

	_, err := svc.UpdateProgress(assignment.ID, assigner.ID, &UpdateProgressRequest{Progress: progress})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateProgress() by assigner error = %v, expected ErrForbidden", err)
	}

	updated, err := svc.UpdateProgress(assignment.ID, assignee.ID, &UpdateProgressRequest{Progress: progress})
	if err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}
	if len(updated.Progress) == 0 {
		t.Error("progress should be stored")
	}

	_, err = svc.UpdateProgress(assignment.ID, assignee.ID, &UpdateProgressRequest{
		Progress: datatypes.JSON(`{"percent":150}`),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("UpdateProgress() with percent > 100 error = %v, expected ErrValidation", err)
	}
}

func TestMarkOverdue_SweepsPastDeadlines(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	svc := NewAssignmentService(db)

	past := createTestAssignment(t, db, assigner.ID, assignee.ID)
	pastEnd := time.Now().Add(-48 * time.Hour)
	if err := db.Model(&models.TrainingAssignment{}).Where("id = ?", past.ID).
		Update("end_date", pastEnd).Error; err != nil {
		t.Fatal(err)
	}

	future := createTestAssignment(t, db, assigner.ID, assignee.ID)
	futureEnd := time.Now().Add(48 * time.Hour)
	if err := db.Model(&models.TrainingAssignment{}).Where("id = ?", future.ID).
		Update("end_date", futureEnd).Error; err != nil {
		t.Fatal(err)
	}

	noDeadline := createTestAssignment(t, db, assigner.ID, assignee.ID)

	marked, err := svc.MarkOverdue(time.Now())
	if err != nil {
		t.Fatalf("MarkOverdue() error = %v", err)
	}
	if marked != 1 {
		t.Errorf("marked = %d, expected 1", marked)
	}

	assertStatus := func(id string, want models.AssignmentStatus) {
		var a models.TrainingAssignment
		if err := db.First(&a, "id = ?", id).Error; err != nil {
			t.Fatal(err)
		}
		if a.Status != want {
			t.Errorf("assignment %s status = %q, expected %q", id, a.Status, want)
		}
	}
	assertStatus(past.ID, models.AssignmentOverdue)
	assertStatus(future.ID, models.AssignmentActive)
	assertStatus(noDeadline.ID, models.AssignmentActive)

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", assignee.ID, models.NotificationAssignmentOverdue).
		Count(&count)
	if count != 1 {
		t.Errorf("overdue notifications = %d, expected 1", count)
	}
}

// Periodic assignments carry no end_date column; their deadline lives in
// the periodic_config end condition and the sweep must evaluate it.
func TestMarkOverdue_PeriodicEndConditions(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	svc := NewAssignmentService(db)
	plan := createTestPlan(t, db, assigner.ID)

	createPeriodic := func(start time.Time, config string) *models.TrainingAssignment {
		t.Helper()
		a, err := svc.Create(&CreateAssignmentRequest{
			PlanID:         plan.ID,
			AssignedTo:     assignee.ID,
			Type:           models.AssignmentPeriodic,
			StartDate:      start,
			PeriodicConfig: datatypes.JSON(config),
		}, assigner.ID)
		if err != nil {
			t.Fatalf("failed to create periodic assignment: %v", err)
		}
		return a
	}

	now := time.Now()
	pastEnd := createPeriodic(now.AddDate(0, 0, -30),
		`{"frequency":"weekly","end_date":"`+now.Add(-72*time.Hour).UTC().Format(time.RFC3339)+`"}`)
	exhausted := createPeriodic(now.AddDate(0, 0, -30),
		`{"frequency":"weekly","occurrences":2}`)
	futureEnd := createPeriodic(now,
		`{"frequency":"weekly","end_date":"`+now.AddDate(0, 0, 30).UTC().Format(time.RFC3339)+`"}`)
	remaining := createPeriodic(now,
		`{"frequency":"weekly","occurrences":4}`)

	marked, err := svc.MarkOverdue(now)
	if err != nil {
		t.Fatalf("MarkOverdue() error = %v", err)
	}
	if marked != 2 {
		t.Errorf("marked = %d, expected 2", marked)
	}

	assertStatus := func(id string, want models.AssignmentStatus) {
		var a models.TrainingAssignment
		if err := db.First(&a, "id = ?", id).Error; err != nil {
			t.Fatal(err)
		}
		if a.Status != want {
			t.Errorf("assignment %s status = %q, expected %q", id, a.Status, want)
		}
	}
	assertStatus(pastEnd.ID, models.AssignmentOverdue)
	assertStatus(exhausted.ID, models.AssignmentOverdue)
	assertStatus(futureEnd.ID, models.AssignmentActive)
	assertStatus(remaining.ID, models.AssignmentActive)
}

func TestMarkOverdue_CompletedAssignmentWins(t *testing.T) {
	db := setupTestDB(t)
	assigner := createTestUser(t, db)
	assignee := createTestUser(t, db)
	svc := NewAssignmentService(db)

	assignment := createTestAssignment(t, db, assigner.ID, assignee.ID)
	pastEnd := time.Now().Add(-24 * time.Hour)
	if err := db.Model(&models.TrainingAssignment{}).Where("id = ?", assignment.ID).
		Update("end_date", pastEnd).Error; err != nil {
		t.Fatal(err)
	}

	// Completion lands between the sweep's read and its write.
	if _, err := svc.Transition(assignment.ID, assignee.ID, models.AssignmentCompleted); err != nil {
		t.Fatal(err)
	}

	marked, err := svc.MarkOverdue(time.Now())
	if err != nil {
		t.Fatalf("MarkOverdue() error = %v", err)
	}
	if marked != 0 {
		t.Errorf("marked = %d, expected 0", marked)
	}

	var a models.TrainingAssignment
	if err := db.First(&a, "id = ?", assignment.ID).Error; err != nil {
		t.Fatal(err)
	}
	if a.Status != models.AssignmentCompleted {
		t.Errorf("status = %q, completed must not be overwritten", a.Status)
	}
}

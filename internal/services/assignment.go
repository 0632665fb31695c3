package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssignmentService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db, notifications: NewNotificationService(db)}
}

type CreateAssignmentRequest struct {
	PlanID         string                `json:"plan_id" binding:"required,uuid"`
	AssignedTo     string                `json:"assigned_to" binding:"required,uuid"`
	TeamID         *string               `json:"team_id" binding:"omitempty,uuid"`
	Type           models.AssignmentType `json:"type" binding:"omitempty,oneof=one_time periodic"`
	StartDate      time.Time             `json:"start_date" binding:"required"`
	EndDate        *time.Time            `json:"end_date"`
	PeriodicConfig datatypes.JSON        `json:"periodic_config"`
}

type UpdateProgressRequest struct {
	Progress datatypes.JSON `json:"progress" binding:"required"`
}

// Create binds a plan to an assignee. Periodic assignments must carry a
// well-formed schedule; one-time assignments must not carry one at all.
func (s *AssignmentService) Create(req *CreateAssignmentRequest, assignerID string) (*models.TrainingAssignment, error) {
	assignmentType := req.Type
	if assignmentType == "" {
		assignmentType = models.AssignmentOneTime
	}

	switch assignmentType {
	case models.AssignmentPeriodic:
		if _, err := ParsePeriodicConfig(req.PeriodicConfig); err != nil {
			return nil, err
		}
	case models.AssignmentOneTime:
		if len(req.PeriodicConfig) > 0 {
			return nil, fmt.Errorf("%w: one_time assignment must not carry a periodic_config", ErrValidation)
		}
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", ErrValidation)
	}

	var assignment models.TrainingAssignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var plan models.TrainingPlan
		if err := tx.First(&plan, "id = ?", req.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: plan %s", ErrNotFound, req.PlanID)
			}
			return err
		}
		var assignee models.User
		if err := tx.First(&assignee, "id = ?", req.AssignedTo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, req.AssignedTo)
			}
			return err
		}
		var assigner models.User
		if err := tx.First(&assigner, "id = ?", assignerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, assignerID)
			}
			return err
		}
		if req.TeamID != nil {
			// Assigning within a team requires the trainer role there.
			if err := requireRole(tx, *req.TeamID, assignerID, models.RoleTrainer); err != nil {
				return err
			}
		}

		assignment = models.TrainingAssignment{
			PlanID:         req.PlanID,
			AssignedTo:     req.AssignedTo,
			AssignedBy:     assignerID,
			TeamID:         req.TeamID,
			Type:           assignmentType,
			Status:         models.AssignmentActive,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			PeriodicConfig: req.PeriodicConfig,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		return s.notifications.createTx(tx, req.AssignedTo, models.NotificationTrainingAssigned,
			"New training plan assigned",
			fmt.Sprintf("%s assigned you the plan %q", assigner.Username, plan.Title),
			map[string]interface{}{"assignment_id": assignment.ID, "plan_id": plan.ID})
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *AssignmentService) Get(id string) (*models.TrainingAssignment, error) {
	var assignment models.TrainingAssignment
	if err := s.db.Preload("Plan").First(&assignment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &assignment, nil
}

func (s *AssignmentService) ListForAssignee(userID string) ([]models.TrainingAssignment, error) {
	var assignments []models.TrainingAssignment
	err := s.db.Preload("Plan").
		Where("assigned_to = ?", userID).
		Order("assigned_at DESC").Find(&assignments).Error
	return assignments, err
}

// allowedTransitions holds the user-driven part of the status machine.
// active -> overdue is time-driven and belongs to the sweep only.
var allowedTransitions = map[models.AssignmentStatus][]models.AssignmentStatus{
	models.AssignmentActive:  {models.AssignmentCompleted, models.AssignmentPaused},
	models.AssignmentPaused:  {models.AssignmentActive},
	models.AssignmentOverdue: {models.AssignmentCompleted},
}

func transitionAllowed(from, to models.AssignmentStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition moves an assignment between statuses. Only the assignee or the
// assigner may drive it. CompletedAt is stamped exactly on entering
// completed and cleared on no other transition.
func (s *AssignmentService) Transition(id, callerID string, target models.AssignmentStatus) (*models.TrainingAssignment, error) {
	var assignment models.TrainingAssignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&assignment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: assignment %s", ErrNotFound, id)
			}
			return err
		}
		if assignment.AssignedTo != callerID && assignment.AssignedBy != callerID {
			return fmt.Errorf("%w: not a party to this assignment", ErrForbidden)
		}
		if !transitionAllowed(assignment.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, assignment.Status, target)
		}

		updates := map[string]interface{}{"status": target}
		if target == models.AssignmentCompleted {
			now := time.Now().UTC()
			updates["completed_at"] = &now
			assignment.CompletedAt = &now
		}
		if err := tx.Model(&assignment).Updates(updates).Error; err != nil {
			return err
		}
		assignment.Status = target

		if target == models.AssignmentCompleted && assignment.AssignedBy != callerID {
			return s.notifications.createTx(tx, assignment.AssignedBy, models.NotificationTrainingCompleted,
				"Assignment completed",
				"An assignee completed a training plan you assigned",
				map[string]interface{}{"assignment_id": assignment.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateProgress replaces the progress payload. Assignee only.
func (s *AssignmentService) UpdateProgress(id, callerID string, req *UpdateProgressRequest) (*models.TrainingAssignment, error) {
	if err := ValidateProgress(req.Progress); err != nil {
		return nil, err
	}
	var assignment models.TrainingAssignment
	if err := s.db.First(&assignment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %s", ErrNotFound, id)
		}
		return nil, err
	}
	if assignment.AssignedTo != callerID {
		return nil, fmt.Errorf("%w: only the assignee can update progress", ErrForbidden)
	}
	if err := s.db.Model(&assignment).Update("progress", req.Progress).Error; err != nil {
		return nil, err
	}
	assignment.Progress = req.Progress
	return &assignment, nil
}

// MarkOverdue is the time-driven edge of the status machine: every active
// assignment whose deadline has passed moves to overdue and the assignee is
// notified. The deadline is the end_date column when set, otherwise the end
// condition of a periodic schedule. Returns the number of rows transitioned.
func (s *AssignmentService) MarkOverdue(now time.Time) (int, error) {
	var candidates []models.TrainingAssignment
	err := s.db.
		Where("status = ?", models.AssignmentActive).
		Where("(end_date IS NOT NULL AND end_date < ?) OR (end_date IS NULL AND type = ?)",
			now, models.AssignmentPeriodic).
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range candidates {
		a := &candidates[i]
		if a.EndDate == nil {
			cfg, err := ParsePeriodicConfig(a.PeriodicConfig)
			if err != nil {
				logger.Errorf("[Scheduler] Assignment %s has an unreadable periodic_config: %v", a.ID, err)
				continue
			}
			if !cfg.EndsAt(a.StartDate).Before(now) {
				continue
			}
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			// Re-check under the transaction; a concurrent completion wins.
			res := tx.Model(&models.TrainingAssignment{}).
				Where("id = ? AND status = ?", a.ID, models.AssignmentActive).
				Update("status", models.AssignmentOverdue)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			marked++
			return s.notifications.createTx(tx, a.AssignedTo, models.NotificationAssignmentOverdue,
				"Assignment overdue",
				"A training plan assigned to you passed its end date",
				map[string]interface{}{"assignment_id": a.ID})
		})
		if err != nil {
			return marked, err
		}
	}
	return marked, nil
}

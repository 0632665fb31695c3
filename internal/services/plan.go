package services

import (
	"errors"
	"fmt"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanService struct {
	db *gorm.DB
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{db: db}
}

type PlanItemRequest struct {
	TrainingTypeID *string        `json:"training_type_id" binding:"omitempty,uuid"`
	Title          string         `json:"title" binding:"required,max=200"`
	Description    *string        `json:"description"`
	Order          int            `json:"order"`
	TargetData     datatypes.JSON `json:"target_data"`
	DayOffset      int            `json:"day_offset"`
}

type CreatePlanRequest struct {
	TeamID            *string           `json:"team_id" binding:"omitempty,uuid"`
	Title             string            `json:"title" binding:"required,max=200"`
	Description       *string           `json:"description"`
	Goals             datatypes.JSON    `json:"goals"`
	EstimatedDuration *int              `json:"estimated_duration" binding:"omitempty,min=1"`
	Difficulty        *int              `json:"difficulty"`
	IsTemplate        bool              `json:"is_template"`
	Items             []PlanItemRequest `json:"items" binding:"omitempty,dive"`
}

type UpdatePlanRequest struct {
	Title             *string        `json:"title" binding:"omitempty,max=200"`
	Description       *string        `json:"description"`
	Goals             datatypes.JSON `json:"goals"`
	EstimatedDuration *int           `json:"estimated_duration" binding:"omitempty,min=1"`
	Difficulty        *int           `json:"difficulty"`
	IsTemplate        *bool          `json:"is_template"`
}

func validatePlanItems(items []PlanItemRequest) error {
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if item.DayOffset < 0 {
			return fmt.Errorf("%w: day_offset must be >= 0", ErrValidation)
		}
		if seen[item.Order] {
			return fmt.Errorf("%w: duplicate item order %d", ErrValidation, item.Order)
		}
		seen[item.Order] = true
		if err := ValidateTargetData(item.TargetData); err != nil {
			return err
		}
	}
	return nil
}

// Create makes a plan with its ordered items. When scoped to a team the
// creator must hold the trainer role there.
func (s *PlanService) Create(req *CreatePlanRequest, creatorID string) (*models.TrainingPlan, error) {
	if req.Difficulty != nil && (*req.Difficulty < 1 || *req.Difficulty > 10) {
		return nil, fmt.Errorf("%w: difficulty must be between 1 and 10", ErrValidation)
	}
	if err := ValidateGoals(req.Goals); err != nil {
		return nil, err
	}
	if err := validatePlanItems(req.Items); err != nil {
		return nil, err
	}

	var plan models.TrainingPlan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.TeamID != nil {
			var team models.Team
			if err := tx.First(&team, "id = ?", *req.TeamID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: team %s", ErrNotFound, *req.TeamID)
				}
				return err
			}
			if err := requireRole(tx, *req.TeamID, creatorID, models.RoleTrainer); err != nil {
				return err
			}
		}

		plan = models.TrainingPlan{
			CreatedBy:         creatorID,
			TeamID:            req.TeamID,
			Title:             req.Title,
			Description:       req.Description,
			Goals:             req.Goals,
			EstimatedDuration: req.EstimatedDuration,
			Difficulty:        req.Difficulty,
			IsTemplate:        req.IsTemplate,
		}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}

		for _, item := range req.Items {
			planItem := models.TrainingPlanItem{
				PlanID:         plan.ID,
				TrainingTypeID: item.TrainingTypeID,
				Title:          item.Title,
				Description:    item.Description,
				Order:          item.Order,
				TargetData:     item.TargetData,
				DayOffset:      item.DayOffset,
			}
			if err := tx.Create(&planItem).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: duplicate item order %d", ErrConflict, item.Order)
				}
				return err
			}
			plan.Items = append(plan.Items, planItem)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Get returns a plan with items in order.
func (s *PlanService) Get(id string) (*models.TrainingPlan, error) {
	var plan models.TrainingPlan
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
	}).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: plan %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &plan, nil
}

func (s *PlanService) ListByCreator(creatorID string) ([]models.TrainingPlan, error) {
	var plans []models.TrainingPlan
	err := s.db.Where("created_by = ?", creatorID).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (s *PlanService) ListByTeam(teamID, callerID string) ([]models.TrainingPlan, error) {
	if _, err := lookupRole(s.db, teamID, callerID); err != nil {
		return nil, err
	}
	var plans []models.TrainingPlan
	err := s.db.Where("team_id = ?", teamID).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (s *PlanService) Update(id, callerID string, req *UpdatePlanRequest) (*models.TrainingPlan, error) {
	var plan models.TrainingPlan
	if err := s.db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: plan %s", ErrNotFound, id)
		}
		return nil, err
	}
	if plan.CreatedBy != callerID {
		return nil, fmt.Errorf("%w: only the creator can edit a plan", ErrForbidden)
	}
	if req.Difficulty != nil && (*req.Difficulty < 1 || *req.Difficulty > 10) {
		return nil, fmt.Errorf("%w: difficulty must be between 1 and 10", ErrValidation)
	}
	if err := ValidateGoals(req.Goals); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if len(req.Goals) > 0 {
		updates["goals"] = req.Goals
	}
	if req.EstimatedDuration != nil {
		updates["estimated_duration"] = req.EstimatedDuration
	}
	if req.Difficulty != nil {
		updates["difficulty"] = req.Difficulty
	}
	if req.IsTemplate != nil {
		updates["is_template"] = *req.IsTemplate
	}
	if len(updates) > 0 {
		if err := s.db.Model(&plan).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &plan, nil
}

// Delete removes a plan with its items and assignments.
func (s *PlanService) Delete(id, callerID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var plan models.TrainingPlan
		if err := tx.First(&plan, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: plan %s", ErrNotFound, id)
			}
			return err
		}
		if plan.CreatedBy != callerID {
			return fmt.Errorf("%w: only the creator can delete a plan", ErrForbidden)
		}
		return deletePlansCascade(tx, []string{id})
	})
}

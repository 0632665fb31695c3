package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TrainingService struct {
	db *gorm.DB
}

func NewTrainingService(db *gorm.DB) *TrainingService {
	return &TrainingService{db: db}
}

type CreateTrainingTypeRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
}

type CreateTrainingRequest struct {
	TrainingTypeID *string        `json:"training_type_id" binding:"omitempty,uuid"`
	Title          string         `json:"title" binding:"required,max=200"`
	Description    *string        `json:"description"`
	Duration       *int           `json:"duration" binding:"omitempty,min=1"`
	Intensity      *int           `json:"intensity"`
	Notes          *string        `json:"notes"`
	Data           datatypes.JSON `json:"data"`
	IsPrivate      *bool          `json:"is_private"`
	CompletedAt    time.Time      `json:"completed_at" binding:"required"`
}

type UpdateTrainingRequest struct {
	Title       *string        `json:"title" binding:"omitempty,max=200"`
	Description *string        `json:"description"`
	Duration    *int           `json:"duration" binding:"omitempty,min=1"`
	Intensity   *int           `json:"intensity"`
	Notes       *string        `json:"notes"`
	Data        datatypes.JSON `json:"data"`
	IsPrivate   *bool          `json:"is_private"`
}

// CreateType adds a training category owned by the caller.
func (s *TrainingService) CreateType(req *CreateTrainingTypeRequest, creatorID string) (*models.TrainingType, error) {
	tt := models.TrainingType{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   &creatorID,
		IsPublic:    req.IsPublic,
	}
	if err := s.db.Create(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

// ListTypes returns public types plus the caller's own private ones.
func (s *TrainingService) ListTypes(callerID string) ([]models.TrainingType, error) {
	var types []models.TrainingType
	err := s.db.Where("is_public = ? OR created_by = ?", true, callerID).
		Order("name ASC").Find(&types).Error
	return types, err
}

// DeleteType removes a category. Trainings and plan items that referenced
// it keep their rows with the reference cleared.
func (s *TrainingService) DeleteType(id, callerID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tt models.TrainingType
		if err := tx.First(&tt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: training type %s", ErrNotFound, id)
			}
			return err
		}
		if tt.CreatedBy == nil || *tt.CreatedBy != callerID {
			return fmt.Errorf("%w: only the creator can delete a training type", ErrForbidden)
		}
		if err := tx.Model(&models.Training{}).Where("training_type_id = ?", id).
			Update("training_type_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TrainingPlanItem{}).Where("training_type_id = ?", id).
			Update("training_type_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&tt).Error
	})
}

// Create records a training session for its owner.
func (s *TrainingService) Create(req *CreateTrainingRequest, ownerID string) (*models.Training, error) {
	if req.Intensity != nil && (*req.Intensity < 1 || *req.Intensity > 10) {
		return nil, fmt.Errorf("%w: intensity must be between 1 and 10", ErrValidation)
	}
	if err := ValidateTargetData(req.Data); err != nil {
		return nil, err
	}
	if req.TrainingTypeID != nil {
		var tt models.TrainingType
		if err := s.db.First(&tt, "id = ?", *req.TrainingTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: training type %s", ErrNotFound, *req.TrainingTypeID)
			}
			return nil, err
		}
	}

	training := models.Training{
		UserID:         ownerID,
		TrainingTypeID: req.TrainingTypeID,
		Title:          req.Title,
		Description:    req.Description,
		Duration:       req.Duration,
		Intensity:      req.Intensity,
		Notes:          req.Notes,
		Data:           req.Data,
		IsPrivate:      true,
		CompletedAt:    req.CompletedAt,
	}
	if req.IsPrivate != nil {
		training.IsPrivate = *req.IsPrivate
	}

	if err := s.db.Create(&training).Error; err != nil {
		return nil, err
	}
	return &training, nil
}

// Get returns a training the caller is allowed to see: their own, a public
// one, or a private one shared into a team they are an active member of.
func (s *TrainingService) Get(id, callerID string) (*models.Training, error) {
	var training models.Training
	if err := s.db.Preload("TrainingType").First(&training, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: training %s", ErrNotFound, id)
		}
		return nil, err
	}
	if training.UserID == callerID || !training.IsPrivate {
		return &training, nil
	}

	var shared int64
	err := s.db.Model(&models.TrainingShare{}).
		Joins("JOIN team_members ON team_members.team_id = training_shares.team_id").
		Where("training_shares.training_id = ?", id).
		Where("team_members.user_id = ? AND team_members.is_active = ?", callerID, true).
		Count(&shared).Error
	if err != nil {
		return nil, err
	}
	if shared == 0 {
		return nil, fmt.Errorf("%w: training is private", ErrForbidden)
	}
	return &training, nil
}

func (s *TrainingService) ListOwn(ownerID string) ([]models.Training, error) {
	var trainings []models.Training
	err := s.db.Preload("TrainingType").
		Where("user_id = ?", ownerID).
		Order("completed_at DESC").Find(&trainings).Error
	return trainings, err
}

func (s *TrainingService) Update(id, callerID string, req *UpdateTrainingRequest) (*models.Training, error) {
	var training models.Training
	if err := s.db.First(&training, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: training %s", ErrNotFound, id)
		}
		return nil, err
	}
	if training.UserID != callerID {
		return nil, fmt.Errorf("%w: only the owner can edit a training", ErrForbidden)
	}
	if req.Intensity != nil && (*req.Intensity < 1 || *req.Intensity > 10) {
		return nil, fmt.Errorf("%w: intensity must be between 1 and 10", ErrValidation)
	}
	if err := ValidateTargetData(req.Data); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.Duration != nil {
		updates["duration"] = req.Duration
	}
	if req.Intensity != nil {
		updates["intensity"] = req.Intensity
	}
	if req.Notes != nil {
		updates["notes"] = req.Notes
	}
	if len(req.Data) > 0 {
		updates["data"] = req.Data
	}
	if req.IsPrivate != nil {
		updates["is_private"] = *req.IsPrivate
	}
	if len(updates) > 0 {
		if err := s.db.Model(&training).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &training, nil
}

// Delete removes a training. Shares go with it; posts that linked it keep
// their rows with the reference cleared.
func (s *TrainingService) Delete(id, callerID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var training models.Training
		if err := tx.First(&training, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: training %s", ErrNotFound, id)
			}
			return err
		}
		if training.UserID != callerID {
			return fmt.Errorf("%w: only the owner can delete a training", ErrForbidden)
		}
		if err := tx.Where("training_id = ?", id).Delete(&models.TrainingShare{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TeamPost{}).Where("training_id = ?", id).
			Update("training_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&training).Error
	})
}

// Share puts a training into a team's visibility scope. Only the owner may
// share, the sharer must be an active member of the target team, and a
// second share of the same pair fails with ErrConflict.
func (s *TrainingService) Share(trainingID, teamID, sharerID string) (*models.TrainingShare, error) {
	var share models.TrainingShare
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var training models.Training
		if err := tx.First(&training, "id = ?", trainingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: training %s", ErrNotFound, trainingID)
			}
			return err
		}
		if training.UserID != sharerID {
			return fmt.Errorf("%w: only the owner can share a training", ErrForbidden)
		}
		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
			}
			return err
		}
		if _, err := lookupRole(tx, teamID, sharerID); err != nil {
			return err
		}

		share = models.TrainingShare{
			TrainingID: trainingID,
			TeamID:     teamID,
			SharedBy:   sharerID,
		}
		if err := tx.Create(&share).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: training already shared with this team", ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &share, nil
}

package services

import (
	"errors"
	"fmt"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

type CreateTeamRequest struct {
	Name           string                `json:"name" binding:"required,max=100"`
	Description    *string               `json:"description"`
	Tier           models.TeamTier       `json:"tier" binding:"omitempty,oneof=basic pro"`
	Privacy        models.TeamPrivacy    `json:"privacy" binding:"omitempty,oneof=private public public_admin_confirm"`
	FeedPermission models.FeedPermission `json:"feed_permission" binding:"omitempty,oneof=members_and_trainers trainers_only"`
}

type UpdateTeamRequest struct {
	Name           *string                `json:"name" binding:"omitempty,max=100"`
	Description    *string                `json:"description"`
	Tier           *models.TeamTier       `json:"tier" binding:"omitempty,oneof=basic pro"`
	Privacy        *models.TeamPrivacy    `json:"privacy" binding:"omitempty,oneof=private public public_admin_confirm"`
	FeedPermission *models.FeedPermission `json:"feed_permission" binding:"omitempty,oneof=members_and_trainers trainers_only"`
}

// Create makes a team and enrolls the creator as its first admin.
func (s *TeamService) Create(req *CreateTeamRequest, creatorID string) (*models.Team, error) {
	team := models.Team{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Tier != "" {
		team.Tier = req.Tier
	}
	if req.Privacy != "" {
		team.Privacy = req.Privacy
	}
	if req.FeedPermission != "" {
		team.FeedPermission = req.FeedPermission
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var creator models.User
		if err := tx.First(&creator, "id = ?", creatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, creatorID)
			}
			return err
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		active := true
		member := models.TeamMember{
			UserID:   creatorID,
			TeamID:   team.ID,
			Role:     models.RoleAdmin,
			IsActive: &active,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) GetByID(id string) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: team %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &team, nil
}

// Update changes team settings. Caller must hold the admin role.
func (s *TeamService) Update(id, callerID string, req *UpdateTeamRequest) (*models.Team, error) {
	team, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := requireRole(s.db, id, callerID, models.RoleAdmin); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.Tier != nil {
		updates["tier"] = *req.Tier
	}
	if req.Privacy != nil {
		updates["privacy"] = *req.Privacy
	}
	if req.FeedPermission != nil {
		updates["feed_permission"] = *req.FeedPermission
	}

	if len(updates) > 0 {
		if err := s.db.Model(team).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return team, nil
}

// Delete removes a team and all its dependents in one transaction:
// memberships, plans (items, assignments), team-scoped assignments, posts
// (options, votes), invitations and shares.
func (s *TeamService) Delete(id, callerID string) error {
	if err := requireRole(s.db, id, callerID, models.RoleAdmin); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: team %s", ErrNotFound, id)
			}
			return err
		}

		var postIDs []string
		if err := tx.Model(&models.TeamPost{}).Where("team_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := deletePostsCascade(tx, postIDs); err != nil {
			return err
		}

		var planIDs []string
		if err := tx.Model(&models.TrainingPlan{}).Where("team_id = ?", id).Pluck("id", &planIDs).Error; err != nil {
			return err
		}
		if err := deletePlansCascade(tx, planIDs); err != nil {
			return err
		}

		steps := []*gorm.DB{
			tx.Where("team_id = ?", id).Delete(&models.TrainingAssignment{}),
			tx.Where("team_id = ?", id).Delete(&models.TeamMember{}),
			tx.Where("team_id = ?", id).Delete(&models.TeamInvitation{}),
			tx.Where("team_id = ?", id).Delete(&models.TrainingShare{}),
		}
		for _, step := range steps {
			if step.Error != nil {
				return step.Error
			}
		}

		return tx.Delete(&team).Error
	})
}

// ListForUser returns teams where the user holds an active membership.
func (s *TeamService) ListForUser(userID string) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND team_members.is_active = ?", userID, true).
		Find(&teams).Error
	return teams, err
}

// deletePostsCascade removes posts plus their poll options and votes.
func deletePostsCascade(tx *gorm.DB, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	var optionIDs []string
	if err := tx.Model(&models.PollOption{}).Where("post_id IN ?", postIDs).Pluck("id", &optionIDs).Error; err != nil {
		return err
	}
	if len(optionIDs) > 0 {
		if err := tx.Where("option_id IN ?", optionIDs).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", optionIDs).Delete(&models.PollOption{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", postIDs).Delete(&models.TeamPost{}).Error
}

// deletePlansCascade removes plans plus their items and assignments.
func deletePlansCascade(tx *gorm.DB, planIDs []string) error {
	if len(planIDs) == 0 {
		return nil
	}
	if err := tx.Where("plan_id IN ?", planIDs).Delete(&models.TrainingAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("plan_id IN ?", planIDs).Delete(&models.TrainingPlanItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", planIDs).Delete(&models.TrainingPlan{}).Error
}

package services

import (
	"errors"
	"fmt"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/gorm"
)

type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

type AddMemberRequest struct {
	UserID string            `json:"user_id" binding:"required,uuid"`
	Role   models.MemberRole `json:"role" binding:"omitempty,oneof=member trainer admin"`
}

type UpdateMemberRequest struct {
	Role     *models.MemberRole `json:"role" binding:"omitempty,oneof=member trainer admin"`
	IsActive *bool              `json:"is_active"`
}

// requireRole checks that the caller holds at least the given role on the
// team. Role order: member < trainer < admin.
func requireRole(db *gorm.DB, teamID, userID string, min models.MemberRole) error {
	role, err := lookupRole(db, teamID, userID)
	if err != nil {
		return err
	}
	if rank(role) < rank(min) {
		return fmt.Errorf("%w: requires %s role on team", ErrForbidden, min)
	}
	return nil
}

// lookupRole returns the caller's active role on the team, or ErrForbidden
// when no active membership exists.
func lookupRole(db *gorm.DB, teamID, userID string) (models.MemberRole, error) {
	var member models.TeamMember
	err := db.Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, userID, true).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: not an active member of team", ErrForbidden)
		}
		return "", err
	}
	return member.Role, nil
}

func rank(r models.MemberRole) int {
	switch r {
	case models.RoleAdmin:
		return 3
	case models.RoleTrainer:
		return 2
	case models.RoleMember:
		return 1
	}
	return 0
}

// Add enrolls a user in a team. An existing active membership for the pair
// fails with ErrConflict; an inactive row is reactivated with the requested
// role instead of a second row being inserted.
func (s *MembershipService) Add(teamID, callerID string, req *AddMemberRequest) (*models.TeamMember, error) {
	if err := requireRole(s.db, teamID, callerID, models.RoleAdmin); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	var member models.TeamMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
			}
			return err
		}
		var user models.User
		if err := tx.First(&user, "id = ?", req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, req.UserID)
			}
			return err
		}

		var existing models.TeamMember
		err := tx.Where("team_id = ? AND user_id = ?", teamID, req.UserID).First(&existing).Error
		active := true
		switch {
		case err == nil && existing.Active():
			return fmt.Errorf("%w: user is already an active member", ErrConflict)
		case err == nil:
			updates := map[string]interface{}{"is_active": true, "role": role}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			member = existing
			member.IsActive = &active
			member.Role = role
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = models.TeamMember{
				UserID:   req.UserID,
				TeamID:   teamID,
				Role:     role,
				IsActive: &active,
			}
			if err := tx.Create(&member).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: user is already a member", ErrConflict)
				}
				return err
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update changes a member's role or active flag. Admin only.
func (s *MembershipService) Update(teamID, memberID, callerID string, req *UpdateMemberRequest) (*models.TeamMember, error) {
	if err := requireRole(s.db, teamID, callerID, models.RoleAdmin); err != nil {
		return nil, err
	}

	var member models.TeamMember
	if err := s.db.Where("id = ? AND team_id = ?", memberID, teamID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: membership %s", ErrNotFound, memberID)
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.db.Model(&member).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &member, nil
}

// RoleOf exposes the role lookup the authorization contract needs.
func (s *MembershipService) RoleOf(teamID, userID string) (models.MemberRole, error) {
	return lookupRole(s.db, teamID, userID)
}

// List returns a team's memberships with users preloaded. Any active member
// may list.
func (s *MembershipService) List(teamID, callerID string) ([]models.TeamMember, error) {
	if _, err := lookupRole(s.db, teamID, callerID); err != nil {
		return nil, err
	}
	var members []models.TeamMember
	err := s.db.Preload("User").Where("team_id = ?", teamID).Order("joined_at ASC").Find(&members).Error
	return members, err
}

// ActiveMemberIDs returns user ids of all active members of a team.
func (s *MembershipService) ActiveMemberIDs(teamID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Pluck("user_id", &ids).Error
	return ids, err
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/internal/utils"
	"gorm.io/gorm"
)

const invitationTTL = 7 * 24 * time.Hour

type InvitationService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewInvitationService(db *gorm.DB) *InvitationService {
	return &InvitationService{db: db, notifications: NewNotificationService(db)}
}

type CreateInvitationRequest struct {
	Email string            `json:"email" binding:"required,email"`
	Role  models.MemberRole `json:"role" binding:"omitempty,oneof=member trainer admin"`
}

// Create issues an email invitation with a fresh single-use token. Admins
// and trainers may invite; trainers cannot grant a role above their own.
func (s *InvitationService) Create(teamID, inviterID string, req *CreateInvitationRequest) (*models.TeamInvitation, error) {
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	inviterRole, err := lookupRole(s.db, teamID, inviterID)
	if err != nil {
		return nil, err
	}
	if rank(inviterRole) < rank(models.RoleTrainer) {
		return nil, fmt.Errorf("%w: only admins and trainers can invite", ErrForbidden)
	}
	if rank(role) > rank(inviterRole) {
		return nil, fmt.Errorf("%w: cannot invite with a role above your own", ErrForbidden)
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, fmt.Errorf("generate invitation token: %w", err)
	}

	invitation := models.TeamInvitation{
		TeamID:    teamID,
		InvitedBy: inviterID,
		Email:     req.Email,
		Role:      role,
		Token:     token,
		ExpiresAt: time.Now().Add(invitationTTL),
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Accept redeems an invitation token for the given user. Expired tokens
// fail with ErrExpiredInvitation, already-redeemed ones with
// ErrAlreadyAccepted. The membership write, the acceptance stamp and the
// inviter's notification land in one transaction. An inactive membership
// for the pair is reactivated with the invited role; an active one fails
// with ErrConflict.
func (s *InvitationService) Accept(token, userID string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var invitation models.TeamInvitation
		if err := tx.Where("token = ?", token).First(&invitation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: invitation token", ErrNotFound)
			}
			return err
		}
		if invitation.AcceptedAt != nil {
			return ErrAlreadyAccepted
		}
		if invitation.Expired(time.Now()) {
			return ErrExpiredInvitation
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return err
		}

		var existing models.TeamMember
		err := tx.Where("team_id = ? AND user_id = ?", invitation.TeamID, userID).
			First(&existing).Error
		active := true
		switch {
		case err == nil && existing.Active():
			return fmt.Errorf("%w: already a member of this team", ErrConflict)
		case err == nil:
			updates := map[string]interface{}{"is_active": true, "role": invitation.Role}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			member = existing
			member.IsActive = &active
			member.Role = invitation.Role
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = models.TeamMember{
				TeamID:   invitation.TeamID,
				UserID:   userID,
				Role:     invitation.Role,
				IsActive: &active,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		default:
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.TeamInvitation{}).Where("id = ?", invitation.ID).
			Update("accepted_at", now).Error; err != nil {
			return err
		}

		return s.notifications.createTx(tx, invitation.InvitedBy,
			models.NotificationInformation,
			"Invitation accepted",
			fmt.Sprintf("%s accepted your team invitation", user.Username),
			map[string]interface{}{"team_id": invitation.TeamID, "user_id": userID})
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListForTeam returns a team's open invitations. Admin only.
func (s *InvitationService) ListForTeam(teamID, callerID string) ([]models.TeamInvitation, error) {
	if err := requireRole(s.db, teamID, callerID, models.RoleAdmin); err != nil {
		return nil, err
	}
	var invitations []models.TeamInvitation
	err := s.db.Where("team_id = ? AND accepted_at IS NULL", teamID).
		Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}

// Revoke deletes an unredeemed invitation. Admin or the original inviter.
func (s *InvitationService) Revoke(id, callerID string) error {
	var invitation models.TeamInvitation
	if err := s.db.First(&invitation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invitation %s", ErrNotFound, id)
		}
		return err
	}
	if invitation.AcceptedAt != nil {
		return ErrAlreadyAccepted
	}
	if invitation.InvitedBy != callerID {
		if err := requireRole(s.db, invitation.TeamID, callerID, models.RoleAdmin); err != nil {
			return err
		}
	}
	return s.db.Delete(&models.TeamInvitation{}, "id = ?", id).Error
}

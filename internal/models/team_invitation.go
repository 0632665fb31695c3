package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamInvitation is an email-addressed invite with a single-use token. An
// invitation is logically invalidated by AcceptedAt or by passing ExpiresAt;
// rows are never tombstoned.
type TeamInvitation struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID     string     `gorm:"type:uuid;index;not null" json:"team_id"`
	InvitedBy  string     `gorm:"type:uuid;not null" json:"invited_by"`
	Email      string     `gorm:"size:255;not null" json:"email"`
	Role       MemberRole `gorm:"size:32;default:member;not null" json:"role"`
	Token      string     `gorm:"uniqueIndex;size:100;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at"`

	Team    *Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	Inviter *User `gorm:"foreignKey:InvitedBy;constraint:OnDelete:CASCADE" json:"inviter,omitempty"`
}

func (TeamInvitation) TableName() string { return "team_invitations" }

func (i *TeamInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the invitation has passed its expiry.
func (i *TeamInvitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

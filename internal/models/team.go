package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team owns memberships, plans, assignments, posts and invitations.
type Team struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Description    *string        `gorm:"type:text" json:"description"`
	Tier           TeamTier       `gorm:"size:32;default:basic;not null" json:"tier"`
	Privacy        TeamPrivacy    `gorm:"size:32;default:private;not null" json:"privacy"`
	FeedPermission FeedPermission `gorm:"size:32;default:members_and_trainers;not null" json:"feed_permission"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (Team) TableName() string { return "teams" }

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TeamMember is the User x Team junction. At most one row exists per pair;
// the role gates writes to team resources.
type TeamMember struct {
	ID       string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string     `gorm:"type:uuid;uniqueIndex:idx_team_member_pair;not null" json:"user_id"`
	TeamID   string     `gorm:"type:uuid;uniqueIndex:idx_team_member_pair;not null" json:"team_id"`
	Role     MemberRole `gorm:"size:32;default:member;not null" json:"role"`
	// Pointer so an explicit false survives the column default on insert.
	IsActive *bool     `gorm:"default:true;not null" json:"is_active"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Team *Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
}

func (TeamMember) TableName() string { return "team_members" }

// Active reports whether the membership is currently active.
func (m *TeamMember) Active() bool {
	return m.IsActive != nil && *m.IsActive
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TrainingAssignment binds a plan to an assignee. AssignedTo and AssignedBy
// are distinct named edges to users and must never be collapsed.
type TrainingAssignment struct {
	ID             string           `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID         string           `gorm:"type:uuid;index;not null" json:"plan_id"`
	AssignedTo     string           `gorm:"type:uuid;index;not null" json:"assigned_to"`
	AssignedBy     string           `gorm:"type:uuid;not null" json:"assigned_by"`
	TeamID         *string          `gorm:"type:uuid;index" json:"team_id"`
	Type           AssignmentType   `gorm:"size:32;default:one_time;not null" json:"type"`
	Status         AssignmentStatus `gorm:"size:32;default:active;not null" json:"status"`
	StartDate      time.Time        `gorm:"not null" json:"start_date"`
	EndDate        *time.Time       `json:"end_date"`
	PeriodicConfig datatypes.JSON   `json:"periodic_config"` // only meaningful when Type is periodic
	Progress       datatypes.JSON   `json:"progress"`
	AssignedAt     time.Time        `gorm:"autoCreateTime" json:"assigned_at"`
	CompletedAt    *time.Time       `json:"completed_at"`

	Plan           *TrainingPlan `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"plan,omitempty"`
	AssignedToUser *User         `gorm:"foreignKey:AssignedTo;constraint:OnDelete:CASCADE" json:"assigned_to_user,omitempty"`
	AssignedByUser *User         `gorm:"foreignKey:AssignedBy;constraint:OnDelete:CASCADE" json:"assigned_by_user,omitempty"`
	Team           *Team         `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
}

func (TrainingAssignment) TableName() string { return "training_assignments" }

func (a *TrainingAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

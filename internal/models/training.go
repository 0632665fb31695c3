package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TrainingType is a named training category. Public types are visible to
// everyone; private ones only to their creator.
type TrainingType struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedBy   *string   `gorm:"type:uuid" json:"created_by"`
	IsPublic    bool      `gorm:"default:false;not null" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (TrainingType) TableName() string { return "training_types" }

func (t *TrainingType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Training is a single session owned by exactly one user. The Data payload
// shape depends on the training type and is validated at the write boundary.
type Training struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"type:uuid;index;not null" json:"user_id"`
	TrainingTypeID *string        `gorm:"type:uuid" json:"training_type_id"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    *string        `gorm:"type:text" json:"description"`
	Duration       *int           `json:"duration"`  // minutes
	Intensity      *int           `json:"intensity"` // 1-10
	Notes          *string        `gorm:"type:text" json:"notes"`
	Data           datatypes.JSON `json:"data"`
	IsPrivate      bool           `gorm:"default:true;not null" json:"is_private"`
	CompletedAt    time.Time      `gorm:"not null" json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`

	User         *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	TrainingType *TrainingType `gorm:"foreignKey:TrainingTypeID;constraint:OnDelete:SET NULL" json:"training_type,omitempty"`
}

func (Training) TableName() string { return "trainings" }

func (t *Training) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TrainingShare records that a private training was shared into a team's
// visibility scope. One share per (training, team) pair.
type TrainingShare struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	TrainingID string    `gorm:"type:uuid;uniqueIndex:idx_training_share_pair;not null" json:"training_id"`
	TeamID     string    `gorm:"type:uuid;uniqueIndex:idx_training_share_pair;not null" json:"team_id"`
	SharedBy   string    `gorm:"type:uuid;not null" json:"shared_by"`
	SharedAt   time.Time `gorm:"autoCreateTime" json:"shared_at"`

	Training *Training `gorm:"foreignKey:TrainingID;constraint:OnDelete:CASCADE" json:"training,omitempty"`
	Team     *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	Sharer   *User     `gorm:"foreignKey:SharedBy;constraint:OnDelete:CASCADE" json:"sharer,omitempty"`
}

func (TrainingShare) TableName() string { return "training_shares" }

func (s *TrainingShare) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TrainingPlan is a reusable template owned by a creator, optionally scoped
// to a team.
type TrainingPlan struct {
	ID                string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedBy         string         `gorm:"type:uuid;index;not null" json:"created_by"`
	TeamID            *string        `gorm:"type:uuid;index" json:"team_id"`
	Title             string         `gorm:"size:200;not null" json:"title"`
	Description       *string        `gorm:"type:text" json:"description"`
	Goals             datatypes.JSON `json:"goals"`
	EstimatedDuration *int           `json:"estimated_duration"` // days
	Difficulty        *int           `json:"difficulty"`         // 1-10
	IsTemplate        bool           `gorm:"default:false;not null" json:"is_template"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	Creator *User              `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Team    *Team              `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	Items   []TrainingPlanItem `gorm:"foreignKey:PlanID" json:"items,omitempty"`
}

func (TrainingPlan) TableName() string { return "training_plans" }

func (p *TrainingPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TrainingPlanItem is an ordered child of a plan. Order is unique within a
// plan; DayOffset counts days from the plan start.
type TrainingPlanItem struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID         string         `gorm:"type:uuid;uniqueIndex:idx_plan_item_order;not null" json:"plan_id"`
	TrainingTypeID *string        `gorm:"type:uuid" json:"training_type_id"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    *string        `gorm:"type:text" json:"description"`
	Order          int            `gorm:"column:order;uniqueIndex:idx_plan_item_order;not null" json:"order"`
	TargetData     datatypes.JSON `json:"target_data"`
	DayOffset      int            `gorm:"default:0;not null" json:"day_offset"`

	Plan         *TrainingPlan `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"plan,omitempty"`
	TrainingType *TrainingType `gorm:"foreignKey:TrainingTypeID;constraint:OnDelete:SET NULL" json:"training_type,omitempty"`
}

func (TrainingPlanItem) TableName() string { return "training_plan_items" }

func (i *TrainingPlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

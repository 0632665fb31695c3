package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the root identity; nearly every other table references it.
type User struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username       string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password       string    `gorm:"size:255" json:"-"` // bcrypt hash
	FirstName      *string   `gorm:"size:100" json:"first_name"`
	LastName       *string   `gorm:"size:100" json:"last_name"`
	ProfilePicture *string   `gorm:"type:text" json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

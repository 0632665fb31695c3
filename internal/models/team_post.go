package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TeamPost is a feed entry authored by a team member. TrainingID is only
// meaningful for posts of type "training".
type TeamPost struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID     string         `gorm:"type:uuid;index;not null" json:"team_id"`
	AuthorID   string         `gorm:"type:uuid;index;not null" json:"author_id"`
	Type       PostType       `gorm:"size:32;not null" json:"type"`
	Title      *string        `gorm:"size:200" json:"title"`
	Content    *string        `gorm:"type:text" json:"content"`
	Data       datatypes.JSON `json:"data"`
	TrainingID *string        `gorm:"type:uuid" json:"training_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Team        *Team        `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	Author      *User        `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Training    *Training    `gorm:"foreignKey:TrainingID;constraint:OnDelete:SET NULL" json:"training,omitempty"`
	PollOptions []PollOption `gorm:"foreignKey:PostID" json:"poll_options,omitempty"`
}

func (TeamPost) TableName() string { return "team_posts" }

func (p *TeamPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PollOption is an ordered choice on a poll post. Votes is a denormalized
// counter; the poll_votes table is the source of truth and the counter is
// maintained in the same transaction as every vote write.
type PollOption struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	PostID string `gorm:"type:uuid;index;not null" json:"post_id"`
	Text   string `gorm:"size:200;not null" json:"text"`
	Votes  int    `gorm:"default:0;not null" json:"votes"`

	Post *TeamPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
}

func (PollOption) TableName() string { return "poll_options" }

func (o *PollOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// PollVote is one user's vote for one option. A user holds at most one vote
// across the options of a poll; that cross-row rule is enforced at the write
// boundary, the unique pair index only guards the per-option case.
type PollVote struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	OptionID string    `gorm:"type:uuid;uniqueIndex:idx_poll_vote_pair;not null" json:"option_id"`
	UserID   string    `gorm:"type:uuid;uniqueIndex:idx_poll_vote_pair;not null" json:"user_id"`
	VotedAt  time.Time `gorm:"autoCreateTime" json:"voted_at"`

	Option *PollOption `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"option,omitempty"`
	User   *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (PollVote) TableName() string { return "poll_votes" }

func (v *PollVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

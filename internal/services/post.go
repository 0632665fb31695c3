package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostService struct {
	db    *gorm.DB
	queue TaskQueue
}

// NewPostService wires the feed service. queue may be nil, in which case
// post notifications are skipped (tests use this).
func NewPostService(db *gorm.DB, queue TaskQueue) *PostService {
	return &PostService{db: db, queue: queue}
}

type CreatePostRequest struct {
	Type       models.PostType `json:"type" binding:"required,oneof=text poll training event announcement"`
	Title      *string         `json:"title" binding:"omitempty,max=200"`
	Content    *string         `json:"content"`
	Data       datatypes.JSON  `json:"data"`
	TrainingID *string         `json:"training_id" binding:"omitempty,uuid"`
	Options    []string        `json:"options"` // poll posts only
}

// Create publishes a post to a team feed. The author must be an active
// member; a trainers_only feed rejects plain members. Poll posts need at
// least two non-empty options; training posts must reference a training
// visible to the team.
func (s *PostService) Create(teamID, authorID string, req *CreatePostRequest) (*models.TeamPost, error) {
	if err := ValidatePostData(req.Type, req.Data); err != nil {
		return nil, err
	}
	if req.Type == models.PostTypePoll {
		if len(req.Options) < 2 {
			return nil, fmt.Errorf("%w: a poll needs at least two options", ErrValidation)
		}
		for _, opt := range req.Options {
			if strings.TrimSpace(opt) == "" {
				return nil, fmt.Errorf("%w: poll option text must not be empty", ErrValidation)
			}
		}
	} else if len(req.Options) > 0 {
		return nil, fmt.Errorf("%w: only poll posts carry options", ErrValidation)
	}
	if req.TrainingID != nil && req.Type != models.PostTypeTraining {
		return nil, fmt.Errorf("%w: only training posts reference a training", ErrValidation)
	}

	var post models.TeamPost
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
			}
			return err
		}

		role, err := lookupRole(tx, teamID, authorID)
		if err != nil {
			return err
		}
		if team.FeedPermission == models.FeedPermissionTrainersOnly && role == models.RoleMember {
			return fmt.Errorf("%w: feed is restricted to trainers", ErrForbidden)
		}

		if req.Type == models.PostTypeTraining {
			if req.TrainingID == nil {
				return fmt.Errorf("%w: training post requires a training_id", ErrValidation)
			}
			var training models.Training
			if err := tx.First(&training, "id = ?", *req.TrainingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: training %s", ErrNotFound, *req.TrainingID)
				}
				return err
			}
			if training.IsPrivate && training.UserID != authorID {
				var shared int64
				if err := tx.Model(&models.TrainingShare{}).
					Where("training_id = ? AND team_id = ?", *req.TrainingID, teamID).
					Count(&shared).Error; err != nil {
					return err
				}
				if shared == 0 {
					return fmt.Errorf("%w: training is not visible to this team", ErrForbidden)
				}
			}
		}

		post = models.TeamPost{
			TeamID:     teamID,
			AuthorID:   authorID,
			Type:       req.Type,
			Title:      req.Title,
			Content:    req.Content,
			Data:       req.Data,
			TrainingID: req.TrainingID,
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		for _, opt := range req.Options {
			option := models.PollOption{
				PostID: post.ID,
				Text:   strings.TrimSpace(opt),
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
			post.PollOptions = append(post.PollOptions, option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.queue != nil {
		title := "New team post"
		if req.Type == models.PostTypePoll {
			title = "New team poll"
		}
		if err := s.queue.Enqueue(&FanOutTask{
			TeamID:        teamID,
			ExcludeUserID: authorID,
			Type:          models.NotificationTeamPost,
			Title:         title,
			Message:       fmt.Sprintf("A new %s post was published to your team feed", post.Type),
			Data:          map[string]interface{}{"post_id": post.ID, "team_id": teamID},
		}); err != nil {
			// Fan-out failure never rolls back the post.
			logger.Warn().Err(err).Str("post_id", post.ID).Str("team_id", teamID).
				Msg("notification fan-out enqueue failed")
			return &post, nil
		}
	}
	return &post, nil
}

// Get returns a post with options and author. Active members only.
func (s *PostService) Get(id, callerID string) (*models.TeamPost, error) {
	var post models.TeamPost
	if err := s.db.Preload("PollOptions").Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return nil, err
	}
	if _, err := lookupRole(s.db, post.TeamID, callerID); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListFeed returns a team's feed, newest first. Active members only.
func (s *PostService) ListFeed(teamID, callerID string, limit, offset int) ([]models.TeamPost, error) {
	if _, err := lookupRole(s.db, teamID, callerID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var posts []models.TeamPost
	err := s.db.Preload("PollOptions").Preload("Author").
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// Delete removes a post (author or a team admin) with its options and votes.
func (s *PostService) Delete(id, callerID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.TeamPost
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post %s", ErrNotFound, id)
			}
			return err
		}
		if post.AuthorID != callerID {
			if err := requireRole(tx, post.TeamID, callerID, models.RoleAdmin); err != nil {
				return err
			}
		}
		return deletePostsCascade(tx, []string{id})
	})
}

// Vote casts or moves a user's vote on a poll. Policy: replace. A user
// holds at most one vote per poll; voting for a different option deletes
// the old vote and moves the counters in the same transaction, so the
// denormalized option counters always equal the vote rows. Re-voting the
// same option is a no-op.
func (s *PostService) Vote(optionID, userID string) (*models.PollOption, error) {
	var option models.PollOption
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&option, "id = ?", optionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: poll option %s", ErrNotFound, optionID)
			}
			return err
		}

		var post models.TeamPost
		if err := tx.First(&post, "id = ?", option.PostID).Error; err != nil {
			return err
		}
		if post.Type != models.PostTypePoll {
			return fmt.Errorf("%w: post is not a poll", ErrValidation)
		}
		if _, err := lookupRole(tx, post.TeamID, userID); err != nil {
			return err
		}

		// Any existing vote across this poll's options.
		var existing models.PollVote
		err := tx.
			Joins("JOIN poll_options ON poll_options.id = poll_votes.option_id").
			Where("poll_options.post_id = ? AND poll_votes.user_id = ?", post.ID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.OptionID == optionID {
				return nil
			}
			if err := tx.Delete(&models.PollVote{}, "id = ?", existing.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.PollOption{}).Where("id = ?", existing.OptionID).
				UpdateColumn("votes", gorm.Expr("votes - 1")).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First vote on this poll.
		default:
			return err
		}

		vote := models.PollVote{OptionID: optionID, UserID: userID}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: vote already recorded", ErrConflict)
			}
			return err
		}
		if err := tx.Model(&models.PollOption{}).Where("id = ?", optionID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error; err != nil {
			return err
		}
		return tx.First(&option, "id = ?", optionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &option, nil
}

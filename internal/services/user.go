package services

import (
	"errors"
	"fmt"

	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/internal/utils"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Username       string  `json:"username" binding:"required,min=3,max=50"`
	Password       string  `json:"password" binding:"required,min=8"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	ProfilePicture *string `json:"profile_picture"`
}

type UpdateUserRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	ProfilePicture *string `json:"profile_picture"`
}

// Search finds users by username or email prefix, for member pickers.
func (s *UserService) Search(query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var users []models.User
	err := s.db.Where("username LIKE ? OR email LIKE ?", query+"%", query+"%").
		Order("username ASC").Limit(limit).Find(&users).Error
	return users, err
}

// Create inserts a new user. Email and username are unique; duplicates fail
// with ErrConflict.
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:          req.Email,
		Username:       req.Username,
		Password:       hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: req.ProfilePicture,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email or username already taken", ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Update(id string, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = req.LastName
	}
	if req.ProfilePicture != nil {
		updates["profile_picture"] = req.ProfilePicture
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Delete removes a user and everything hanging off it: memberships,
// trainings (with their shares and votes), plans, assignments in either
// direction, posts, notifications and sent invitations. One transaction,
// mirroring the schema's cascade edges on every engine.
func (s *UserService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, id)
			}
			return err
		}

		var trainingIDs []string
		if err := tx.Model(&models.Training{}).Where("user_id = ?", id).Pluck("id", &trainingIDs).Error; err != nil {
			return err
		}
		if len(trainingIDs) > 0 {
			if err := tx.Where("training_id IN ?", trainingIDs).Delete(&models.TrainingShare{}).Error; err != nil {
				return err
			}
			// Posts referencing a deleted training keep the row, lose the link.
			if err := tx.Model(&models.TeamPost{}).Where("training_id IN ?", trainingIDs).
				Update("training_id", nil).Error; err != nil {
				return err
			}
		}

		var voteOptionIDs []string
		if err := tx.Model(&models.PollVote{}).Where("user_id = ?", id).Pluck("option_id", &voteOptionIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		for _, optionID := range voteOptionIDs {
			if err := tx.Model(&models.PollOption{}).Where("id = ?", optionID).
				UpdateColumn("votes", gorm.Expr("votes - 1")).Error; err != nil {
				return err
			}
		}

		var postIDs []string
		if err := tx.Model(&models.TeamPost{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := deletePostsCascade(tx, postIDs); err != nil {
			return err
		}

		var planIDs []string
		if err := tx.Model(&models.TrainingPlan{}).Where("created_by = ?", id).Pluck("id", &planIDs).Error; err != nil {
			return err
		}
		if err := deletePlansCascade(tx, planIDs); err != nil {
			return err
		}

		steps := []*gorm.DB{
			tx.Where("user_id = ?", id).Delete(&models.TeamMember{}),
			tx.Where("assigned_to = ? OR assigned_by = ?", id, id).Delete(&models.TrainingAssignment{}),
			tx.Where("shared_by = ?", id).Delete(&models.TrainingShare{}),
			tx.Where("user_id = ?", id).Delete(&models.Training{}),
			tx.Where("user_id = ?", id).Delete(&models.Notification{}),
			tx.Where("invited_by = ?", id).Delete(&models.TeamInvitation{}),
			tx.Model(&models.TrainingType{}).Where("created_by = ?", id).Update("created_by", nil),
		}
		for _, step := range steps {
			if step.Error != nil {
				return step.Error
			}
		}

		return tx.Delete(&user).Error
	})
}

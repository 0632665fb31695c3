package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func marshalData(data map[string]interface{}) (datatypes.JSON, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// createTx inserts a notification inside the caller's transaction so the
// notification lives or dies with the triggering write.
func (s *NotificationService) createTx(tx *gorm.DB, userID string, notifType models.NotificationType, title, message string, data map[string]interface{}) error {
	raw, err := marshalData(data)
	if err != nil {
		return err
	}
	n := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    raw,
	}
	return tx.Create(&n).Error
}

// Create inserts a standalone notification.
func (s *NotificationService) Create(userID string, notifType models.NotificationType, title, message string, data map[string]interface{}) (*models.Notification, error) {
	raw, err := marshalData(data)
	if err != nil {
		return nil, err
	}
	n := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    raw,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// FanOutToTeam delivers one notification to every active member of a team
// except the actor. Used by the task queue worker.
func (s *NotificationService) FanOutToTeam(teamID, excludeUserID string, notifType models.NotificationType, title, message string, data map[string]interface{}) error {
	var memberIDs []string
	err := s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		return err
	}

	raw, err := marshalData(data)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, memberID := range memberIDs {
			if memberID == excludeUserID {
				continue
			}
			n := models.Notification{
				UserID:  memberID,
				Type:    notifType,
				Title:   title,
				Message: message,
				Data:    raw,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ProcessFanOutTask is the task queue processor for team fan-out tasks.
func (s *NotificationService) ProcessFanOutTask(ctx context.Context, task *FanOutTask) error {
	return s.FanOutToTeam(task.TeamID, task.ExcludeUserID, task.Type, task.Title, task.Message, task.Data)
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(userID string, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead flags one notification as read. Recipient only.
func (s *NotificationService) MarkRead(id, callerID string) error {
	var n models.Notification
	if err := s.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %s", ErrNotFound, id)
		}
		return err
	}
	if n.UserID != callerID {
		return fmt.Errorf("%w: not the recipient", ErrForbidden)
	}
	return s.db.Model(&n).Update("is_read", true).Error
}

// MarkAllRead flags all of a user's notifications as read.
func (s *NotificationService) MarkAllRead(userID string) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

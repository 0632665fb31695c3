package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	overdueLockName  = "assignment_overdue_sweep"
	overdueLockLease = 10 * time.Minute
)

// SchedulerService runs the periodic assignment sweep. A database lease
// row keeps multiple instances from sweeping at the same time.
type SchedulerService struct {
	db          *gorm.DB
	assignments *AssignmentService
	cron        *cron.Cron
	instanceID  string
	spec        string
}

func NewSchedulerService(db *gorm.DB, assignments *AssignmentService, spec string) *SchedulerService {
	if spec == "" {
		spec = "*/15 * * * *"
	}
	return &SchedulerService{
		db:          db,
		assignments: assignments,
		instanceID:  uuid.NewString(),
		spec:        spec,
	}
}

func (s *SchedulerService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	logger.Infof("[Scheduler] Overdue sweep scheduled (cron: %s)", s.spec)
	return nil
}

func (s *SchedulerService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *SchedulerService) sweep() {
	acquired, err := s.acquireLock()
	if err != nil {
		logger.Errorf("[Scheduler] Lock acquisition failed: %v", err)
		return
	}
	if !acquired {
		logger.Debug().Msg("overdue sweep lock held by another instance")
		return
	}
	defer s.releaseLock()

	count, err := s.assignments.MarkOverdue(time.Now())
	if err != nil {
		logger.Errorf("[Scheduler] Overdue sweep failed: %v", err)
		return
	}
	if count > 0 {
		logger.Infof("[Scheduler] Marked %d assignments overdue", count)
	}
}

// acquireLock takes the sweep lease. A stale lease past its expiry is
// claimed by overwriting; a live lease held elsewhere is left alone.
func (s *SchedulerService) acquireLock() (bool, error) {
	now := time.Now()
	acquired := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lock models.SchedulerLock
		err := tx.Where("name = ?", overdueLockName).First(&lock).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			lock = models.SchedulerLock{
				Name:      overdueLockName,
				LockedBy:  s.instanceID,
				LockedAt:  now,
				ExpiresAt: now.Add(overdueLockLease),
			}
			if err := tx.Create(&lock).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil
				}
				return err
			}
			acquired = true
			return nil
		case err != nil:
			return err
		}

		if lock.LockedBy != s.instanceID && now.Before(lock.ExpiresAt) {
			return nil
		}
		res := tx.Model(&models.SchedulerLock{}).
			Where("name = ? AND (locked_by = ? OR expires_at <= ?)", overdueLockName, lock.LockedBy, now).
			Updates(map[string]interface{}{
				"locked_by":  s.instanceID,
				"locked_at":  now,
				"expires_at": now.Add(overdueLockLease),
			})
		if res.Error != nil {
			return res.Error
		}
		acquired = res.RowsAffected > 0
		return nil
	})
	return acquired, err
}

func (s *SchedulerService) releaseLock() {
	err := s.db.Model(&models.SchedulerLock{}).
		Where("name = ? AND locked_by = ?", overdueLockName, s.instanceID).
		Update("expires_at", time.Now()).Error
	if err != nil {
		logger.Errorf("[Scheduler] Lock release failed: %v", err)
	}
}

package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teamfit/backend/internal/models"
	"gorm.io/datatypes"
)

// The jsonb columns (data, goals, periodic_config, progress, target_data)
// are tagged unions, not blobs. Every write decodes into the typed variant
// for its context and validates it; storage never sees an unchecked payload.

var validate = validator.New()

// PeriodicConfig describes the schedule of a periodic assignment: a
// frequency plus an end condition (end date or repetition count).
type PeriodicConfig struct {
	Frequency   string     `json:"frequency" validate:"required,oneof=daily weekly biweekly monthly"`
	Interval    int        `json:"interval" validate:"omitempty,min=1"`
	EndDate     *time.Time `json:"end_date"`
	Occurrences *int       `json:"occurrences" validate:"omitempty,min=1"`
}

// Progress tracks completion of plan items within an assignment.
type Progress struct {
	CompletedItems []string `json:"completed_items" validate:"omitempty,dive,uuid"`
	Percent        float64  `json:"percent" validate:"min=0,max=100"`
	Note           string   `json:"note" validate:"omitempty,max=2000"`
}

// Goals is the goals payload of a training plan.
type Goals struct {
	Summary string       `json:"summary" validate:"omitempty,max=2000"`
	Targets []GoalTarget `json:"targets" validate:"omitempty,dive"`
}

type GoalTarget struct {
	Metric string  `json:"metric" validate:"required,max=100"`
	Value  float64 `json:"value" validate:"required"`
	Unit   string  `json:"unit" validate:"omitempty,max=32"`
}

// TargetData is the per-item target payload of a plan item, and doubles as
// the recorded payload of a completed training session.
type TargetData struct {
	Sets            *int     `json:"sets" validate:"omitempty,min=1"`
	Reps            *int     `json:"reps" validate:"omitempty,min=1"`
	WeightKg        *float64 `json:"weight_kg" validate:"omitempty,min=0"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,min=1"`
	DistanceMeters  *float64 `json:"distance_meters" validate:"omitempty,min=0"`
}

// EventData is the payload of an "event" team post.
type EventData struct {
	Location string     `json:"location" validate:"omitempty,max=200"`
	StartsAt time.Time  `json:"starts_at" validate:"required"`
	EndsAt   *time.Time `json:"ends_at"`
}

func decodeStrict(raw datatypes.JSON, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ParsePeriodicConfig validates the schedule payload of a periodic
// assignment. An end condition is mandatory.
func ParsePeriodicConfig(raw datatypes.JSON) (*PeriodicConfig, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: periodic assignment requires a periodic_config", ErrValidation)
	}
	var cfg PeriodicConfig
	if err := decodeStrict(raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.EndDate == nil && cfg.Occurrences == nil {
		return nil, fmt.Errorf("%w: periodic_config needs an end_date or occurrences", ErrValidation)
	}
	return &cfg, nil
}

// EndsAt resolves when the schedule runs out: the explicit end date, or the
// time of the final occurrence counted from the start. ParsePeriodicConfig
// guarantees one of the two end conditions is present.
func (c *PeriodicConfig) EndsAt(start time.Time) time.Time {
	if c.EndDate != nil {
		return *c.EndDate
	}
	interval := c.Interval
	if interval < 1 {
		interval = 1
	}
	steps := *c.Occurrences * interval
	switch c.Frequency {
	case "daily":
		return start.AddDate(0, 0, steps)
	case "weekly":
		return start.AddDate(0, 0, 7*steps)
	case "biweekly":
		return start.AddDate(0, 0, 14*steps)
	case "monthly":
		return start.AddDate(0, steps, 0)
	}
	return start
}

// ValidateProgress checks an assignment progress payload.
func ValidateProgress(raw datatypes.JSON) error {
	if len(raw) == 0 {
		return nil
	}
	var p Progress
	return decodeStrict(raw, &p)
}

// ValidateGoals checks a plan goals payload.
func ValidateGoals(raw datatypes.JSON) error {
	if len(raw) == 0 {
		return nil
	}
	var g Goals
	return decodeStrict(raw, &g)
}

// ValidateTargetData checks a plan item target payload or a training's
// recorded data payload.
func ValidateTargetData(raw datatypes.JSON) error {
	if len(raw) == 0 {
		return nil
	}
	var t TargetData
	return decodeStrict(raw, &t)
}

// ValidatePostData checks a post's data payload against its type. Only
// event posts carry structured data; the other variants are discriminated
// by sibling columns (content, poll options, training reference) and must
// leave data empty.
func ValidatePostData(postType models.PostType, raw datatypes.JSON) error {
	switch postType {
	case models.PostTypeEvent:
		if len(raw) == 0 {
			return fmt.Errorf("%w: event post requires event data", ErrValidation)
		}
		var e EventData
		if err := decodeStrict(raw, &e); err != nil {
			return err
		}
		if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
			return fmt.Errorf("%w: event ends before it starts", ErrValidation)
		}
		return nil
	case models.PostTypeText, models.PostTypePoll, models.PostTypeTraining, models.PostTypeAnnouncement:
		if len(raw) != 0 {
			return fmt.Errorf("%w: %s post must not carry a data payload", ErrValidation, postType)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown post type %q", ErrValidation, postType)
	}
}

package services

import (
	"errors"
	"testing"

	"github.com/teamfit/backend/internal/models"
	"gorm.io/datatypes"
)

func TestParsePeriodicConfig(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"occurrences end condition", `{"frequency":"weekly","occurrences":4}`, false},
		{"end date end condition", `{"frequency":"daily","end_date":"2026-09-30T00:00:00Z"}`, false},
		{"missing end condition", `{"frequency":"weekly"}`, true},
		{"bad frequency", `{"frequency":"hourly","occurrences":4}`, true},
		{"zero occurrences", `{"frequency":"weekly","occurrences":0}`, true},
		{"unknown field", `{"frequency":"weekly","occurrences":4,"cadence":"am"}`, true},
		{"empty payload", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePeriodicConfig(datatypes.JSON(tt.raw))
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, expected ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error = %v", err)
			}
		})
	}
}

func TestValidatePostData(t *testing.T) {
	tests := []struct {
		name     string
		postType models.PostType
		raw      string
		wantErr  bool
	}{
		{"event with data", models.PostTypeEvent, `{"location":"Track","starts_at":"2026-09-01T18:00:00Z"}`, false},
		{"event without data", models.PostTypeEvent, ``, true},
		{"event ends before start", models.PostTypeEvent, `{"starts_at":"2026-09-01T18:00:00Z","ends_at":"2026-09-01T17:00:00Z"}`, true},
		{"event with unknown field", models.PostTypeEvent, `{"starts_at":"2026-09-01T18:00:00Z","venue":"Track"}`, true},
		{"text with data", models.PostTypeText, `{"location":"Track"}`, true},
		{"text without data", models.PostTypeText, ``, false},
		{"poll with data", models.PostTypePoll, `{"anything":1}`, true},
		{"unknown type", models.PostType("gallery"), ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostData(tt.postType, datatypes.JSON(tt.raw))
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, expected ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error = %v", err)
			}
		})
	}
}

func TestPeriodicConfigEndsAt(t *testing.T) {
	start := mustTime(t, "2026-01-01T00:00:00Z")

	cfg, err := ParsePeriodicConfig(datatypes.JSON(`{"frequency":"weekly","end_date":"2026-02-01T00:00:00Z"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.EndsAt(start); !got.Equal(mustTime(t, "2026-02-01T00:00:00Z")) {
		t.Errorf("explicit end date: EndsAt = %v", got)
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"daily occurrences", `{"frequency":"daily","occurrences":10}`, "2026-01-11T00:00:00Z"},
		{"weekly occurrences", `{"frequency":"weekly","occurrences":2}`, "2026-01-15T00:00:00Z"},
		{"biweekly occurrences", `{"frequency":"biweekly","occurrences":2}`, "2026-01-29T00:00:00Z"},
		{"monthly occurrences", `{"frequency":"monthly","occurrences":3}`, "2026-04-01T00:00:00Z"},
		{"interval multiplies", `{"frequency":"weekly","interval":2,"occurrences":2}`, "2026-01-29T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParsePeriodicConfig(datatypes.JSON(tt.raw))
			if err != nil {
				t.Fatal(err)
			}
			if got := cfg.EndsAt(start); !got.Equal(mustTime(t, tt.want)) {
				t.Errorf("EndsAt = %v, expected %s", got, tt.want)
			}
		})
	}
}

func TestValidateProgress(t *testing.T) {
	if err := ValidateProgress(datatypes.JSON(`{"percent":55.5,"note":"halfway"}`)); err != nil {
		t.Errorf("valid progress error = %v", err)
	}
	if err := ValidateProgress(datatypes.JSON(`{"percent":120}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("percent 120 error = %v, expected ErrValidation", err)
	}
	if err := ValidateProgress(datatypes.JSON(`{"percent":10,"completed_items":["not-a-uuid"]}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("bad item id error = %v, expected ErrValidation", err)
	}
	if err := ValidateProgress(nil); err != nil {
		t.Errorf("empty progress error = %v", err)
	}
}

func TestValidateTargetData(t *testing.T) {
	if err := ValidateTargetData(datatypes.JSON(`{"sets":5,"reps":5,"weight_kg":80}`)); err != nil {
		t.Errorf("valid target error = %v", err)
	}
	if err := ValidateTargetData(datatypes.JSON(`{"sets":0}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("zero sets error = %v, expected ErrValidation", err)
	}
	if err := ValidateTargetData(datatypes.JSON(`{"rpe":9}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown field error = %v, expected ErrValidation", err)
	}
}

func TestValidateGoals(t *testing.T) {
	good := `{"summary":"Build base","targets":[{"metric":"weekly_km","value":40,"unit":"km"}]}`
	if err := ValidateGoals(datatypes.JSON(good)); err != nil {
		t.Errorf("valid goals error = %v", err)
	}
	if err := ValidateGoals(datatypes.JSON(`{"targets":[{"value":40}]}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("target without metric error = %v, expected ErrValidation", err)
	}
}

package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Repository interface {
	Lookup

	ListWorkingHours(ctx context.Context, salonID, staffID uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, salonID, staffID uint, week []models.WorkingHours) error

	ListOverrides(ctx context.Context, salonID, staffID uint, from, to string) ([]models.ScheduleOverride, error)
	CreateOverride(ctx context.Context, ov *models.ScheduleOverride) error
	DeleteOverride(ctx context.Context, salonID, staffID, overrideID uint) error
}

// ValidateOverride checks type and custom slots.
func ValidateOverride(ov *models.ScheduleOverride) error {
	if _, err := ParseDate(ov.Date); err != nil {
		return err
	}
	switch ov.Type {
	case models.OverrideOff:
		return nil
	case models.OverrideCustom:
		return ValidateRanges(ov.Slots.Data())
	default:
		return invalidOverride
	}
}

var invalidOverride = httperr.ErrValidation("invalid_override")

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date")
	}
	return t, nil
}

// ValidateWeek checks a full weekly replacement: weekdays 0..6, each at
// most once, with valid ranges.
func ValidateWeek(week []models.WorkingHours) error {
	seen := make(map[int]bool, len(week))
	for _, wh := range week {
		if wh.Weekday < 0 || wh.Weekday > 6 || seen[wh.Weekday] {
			return httperr.ErrValidation("invalid_working_hours")
		}
		seen[wh.Weekday] = true
		if err := ValidateRanges(wh.Slots.Data()); err != nil {
			return httperr.ErrValidation("invalid_working_hours")
		}
	}
	return nil
}

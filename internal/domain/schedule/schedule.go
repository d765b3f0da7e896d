package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const DateLayout = "2006-01-02"

// Interval is a half-open [Start, End) window on a concrete day.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Contains(start, end time.Time) bool {
	return !start.Before(i.Start) && !end.After(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// WeekdayIndex maps a date to 0 (Monday) .. 6 (Sunday).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidateRanges checks that ranges are well formed, ordered and disjoint.
func ValidateRanges(ranges []models.TimeRange) error {
	prevEnd := -1
	for _, r := range ranges {
		start, err := ParseClock(r.Start)
		if err != nil {
			return httperr.ErrValidation("invalid_time_range")
		}
		end, err := ParseClock(r.End)
		if err != nil {
			return httperr.ErrValidation("invalid_time_range")
		}
		if end <= start || start < prevEnd {
			return httperr.ErrValidation("invalid_time_range")
		}
		prevEnd = end
	}
	return nil
}

// Intervals places time-of-day ranges on day, which must be midnight in
// the salon's location. Malformed ranges are skipped.
func Intervals(day time.Time, ranges []models.TimeRange) []Interval {
	out := make([]Interval, 0, len(ranges))
	for _, r := range ranges {
		start, err := ParseClock(r.Start)
		if err != nil {
			continue
		}
		end, err := ParseClock(r.End)
		if err != nil || end < start {
			continue
		}
		out = append(out, Interval{
			Start: atMinute(day, start),
			End:   atMinute(day, end),
		})
	}
	return out
}

func atMinute(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// Lookup is the read side Resolve needs.
type Lookup interface {
	GetWorkingHours(ctx context.Context, salonID, staffID uint, weekday int) (*models.WorkingHours, error)
	GetOverride(ctx context.Context, salonID, staffID uint, date string) (*models.ScheduleOverride, error)
}

// Resolve returns the staff member's open intervals on day. A date
// override replaces the weekly entry entirely.
func Resolve(ctx context.Context, repo Lookup, salonID, staffID uint, day time.Time) ([]Interval, error) {
	ov, err := repo.GetOverride(ctx, salonID, staffID, day.Format(DateLayout))
	if err != nil {
		return nil, err
	}
	if ov != nil {
		if ov.Type == models.OverrideOff {
			return nil, nil
		}
		return Intervals(day, ov.Slots.Data()), nil
	}

	wh, err := repo.GetWorkingHours(ctx, salonID, staffID, WeekdayIndex(day))
	if err != nil {
		return nil, err
	}
	if wh == nil || !wh.Working {
		return nil, nil
	}
	return Intervals(day, wh.Slots.Data()), nil
}

// Fits reports whether [start, end) lies inside one of the intervals.
func Fits(intervals []Interval, start, end time.Time) bool {
	for _, iv := range intervals {
		if iv.Contains(start, end) {
			return true
		}
	}
	return false
}

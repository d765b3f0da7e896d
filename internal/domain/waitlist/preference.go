package waitlist

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// DayAllowed reports whether the preference accepts the given date.
func DayAllowed(pref models.AvailabilityPreference, day time.Time) bool {
	date := day.Format(schedule.DateLayout)
	if pref.EarliestDate != "" && date < pref.EarliestDate {
		return false
	}
	if pref.LatestDate != "" && date > pref.LatestDate {
		return false
	}
	if len(pref.PreferredDays) == 0 {
		return true
	}
	weekday := schedule.WeekdayIndex(day)
	for _, d := range pref.PreferredDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// Contained keeps the open intervals that sit fully inside one of the
// preferred time ranges. Without ranges every interval qualifies.
func Contained(pref models.AvailabilityPreference, day time.Time, open []schedule.Interval) []schedule.Interval {
	if len(pref.PreferredTimeRanges) == 0 {
		return open
	}

	preferred := schedule.Intervals(day, pref.PreferredTimeRanges)
	var out []schedule.Interval
	for _, iv := range open {
		for _, p := range preferred {
			if !iv.Start.Before(p.Start) && !iv.End.After(p.End) {
				out = append(out, iv)
				break
			}
		}
	}
	return out
}

// Windows clips the open intervals of a day to the preferred time
// ranges. Without ranges the intervals are returned as they are.
func Windows(pref models.AvailabilityPreference, day time.Time, open []schedule.Interval) []schedule.Interval {
	if len(pref.PreferredTimeRanges) == 0 {
		return open
	}

	preferred := schedule.Intervals(day, pref.PreferredTimeRanges)
	var out []schedule.Interval
	for _, iv := range open {
		for _, p := range preferred {
			start, end := later(iv.Start, p.Start), earlier(iv.End, p.End)
			if start.Before(end) {
				out = append(out, schedule.Interval{Start: start, End: end})
			}
		}
	}
	return out
}

// EligibleStaff resolves who may serve the entry: preferred staff, else
// the service's eligible list, else every active staff member.
func EligibleStaff(pref models.AvailabilityPreference, service models.Service, active []models.Staff) []models.Staff {
	want := pref.PreferredStaffIDs
	if len(want) == 0 {
		want = service.EligibleStaff()
	}
	if len(want) == 0 {
		return active
	}

	out := make([]models.Staff, 0, len(want))
	for _, s := range active {
		for _, id := range want {
			if s.ID == id {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

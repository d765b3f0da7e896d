package waitlist

import (
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Match is an open slot surfaced for a waitlist entry.
type Match struct {
	EntryID   uint      `json:"entry_id"`
	ClientID  uint      `json:"client_id"`
	ServiceID uint      `json:"service_id"`
	StaffID   uint      `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// FirstFit returns the earliest conflict-free window of length inside the
// given windows that starts no earlier than notBefore.
func FirstFit(
	windows []schedule.Interval,
	booked []models.Appointment,
	step, length time.Duration,
	notBefore time.Time,
) (schedule.Interval, bool) {
	if step <= 0 {
		step = domain.DefaultSlotStep
	}
	if length <= 0 {
		return schedule.Interval{}, false
	}

	for _, w := range windows {
		for start := w.Start; !start.Add(length).After(w.End); start = start.Add(step) {
			if start.Before(notBefore) {
				continue
			}
			end := start.Add(length)
			if !domain.HasConflict(booked, start, end, 0) {
				return schedule.Interval{Start: start, End: end}, true
			}
		}
	}
	return schedule.Interval{}, false
}

// FreeSlot returns the first slot long enough for the service that starts
// no earlier than notBefore and that no booked appointment overlaps.
func FreeSlot(
	slots []schedule.Interval,
	booked []models.Appointment,
	length time.Duration,
	notBefore time.Time,
) (schedule.Interval, bool) {
	if length <= 0 {
		return schedule.Interval{}, false
	}
	for _, s := range slots {
		if s.Start.Before(notBefore) || s.End.Sub(s.Start) < length {
			continue
		}
		if !domain.HasConflict(booked, s.Start, s.End, 0) {
			return s, true
		}
	}
	return schedule.Interval{}, false
}

package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const DefaultSlotStep = 15 * time.Minute

type AvailabilityInput struct {
	SalonID   uint
	ServiceID uint
	StaffID   uint
	Date      time.Time
}

type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	StaffID   uint      `json:"staff_id"`
	StaffName string    `json:"staff_name"`
}

// StaffDay is everything the generator needs about one staff member on
// one date.
type StaffDay struct {
	Staff        models.Staff
	Intervals    []schedule.Interval
	Appointments []models.Appointment
}

// EligibleStaff narrows the active staff list for a service. An explicit
// staffID wins, then the service's eligible list; an empty list means
// anyone.
func EligibleStaff(active []models.Staff, service models.Service, staffID uint) []models.Staff {
	allowed := service.EligibleStaff()
	permitted := func(id uint) bool {
		if len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == id {
				return true
			}
		}
		return false
	}

	out := make([]models.Staff, 0, len(active))
	for _, s := range active {
		if staffID != 0 && s.ID != staffID {
			continue
		}
		if permitted(s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// GenerateSlots walks every open interval in step increments and keeps the
// windows of the given length that fit and do not conflict. Output is
// sorted by start, then staff name.
func GenerateSlots(days []StaffDay, step, length time.Duration) []Slot {
	if step <= 0 {
		step = DefaultSlotStep
	}
	if length <= 0 {
		return nil
	}

	var slots []Slot
	for _, day := range days {
		for _, iv := range day.Intervals {
			for start := iv.Start; !start.Add(length).After(iv.End); start = start.Add(step) {
				end := start.Add(length)
				if HasConflict(day.Appointments, start, end, 0) {
					continue
				}
				slots = append(slots, Slot{
					Start:     start,
					End:       end,
					StaffID:   day.Staff.ID,
					StaffName: day.Staff.Label(),
				})
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		if slots[i].StaffName != slots[j].StaffName {
			return slots[i].StaffName < slots[j].StaffName
		}
		return slots[i].StaffID < slots[j].StaffID
	})
	return slots
}

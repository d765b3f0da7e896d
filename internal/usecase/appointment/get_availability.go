package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo      domain.Repository
	schedules schedule.Lookup
}

func NewGetAvailability(repo domain.Repository, schedules schedule.Lookup) *GetAvailability {
	return &GetAvailability{repo: repo, schedules: schedules}
}

// Execute lists every bookable window for the service on in.Date across
// eligible staff. Past windows are not filtered.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.Slot, error) {

	salon, err := uc.repo.GetSalon(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	active, err := uc.repo.ListActiveStaff(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	// The calendar date is read in the salon's timezone.
	day := time.Date(
		in.Date.Year(), in.Date.Month(), in.Date.Day(),
		0, 0, 0, 0,
		timezone.Location(salon.Timezone),
	)

	staff := domain.EligibleStaff(active, *service, in.StaffID)
	days := make([]domain.StaffDay, 0, len(staff))

	for _, s := range staff {
		intervals, err := schedule.Resolve(ctx, uc.schedules, in.SalonID, s.ID, day)
		if err != nil {
			return nil, err
		}
		if len(intervals) == 0 {
			continue
		}

		booked, err := uc.repo.ListAppointmentsForStaff(
			ctx, in.SalonID, s.ID,
			intervals[0].Start, intervals[len(intervals)-1].End,
		)
		if err != nil {
			return nil, err
		}

		days = append(days, domain.StaffDay{
			Staff:        s,
			Intervals:    intervals,
			Appointments: booked,
		})
	}

	step := time.Duration(salon.SlotDurationMinutes) * time.Minute
	slots := domain.GenerateSlots(days, step, service.Length())
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}

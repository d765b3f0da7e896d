package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute returns the salon's day view. staffID zero means every staff
// member.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	salonID uint,
	staffID uint,
	date time.Time,
) ([]dto.CalendarEntry, error) {

	salon, err := uc.repo.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(salon.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		salonID,
		staffID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return toCalendar(appointments, loc), nil
}

func toCalendar(appointments []models.Appointment, loc *time.Location) []dto.CalendarEntry {
	out := make([]dto.CalendarEntry, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.CalendarEntry{
			ID:          ap.ID,
			StartTime:   ap.StartTime.In(loc),
			EndTime:     ap.EndTime.In(loc),
			Status:      ap.Status,
			Version:     ap.Version,
			StaffID:     ap.StaffID,
			StaffName:   ap.Staff.Label(),
			ClientID:    ap.ClientID,
			ClientName:  ap.Client.Name,
			ClientPhone: ap.Client.Phone,
			ServiceID:   ap.ServiceID,
			ServiceName: ap.Service.Name,
			PriceCents:  ap.ServicePriceCents,
			Confirmed:   ap.ClientConfirmedAt != nil,
			Notes:       ap.Notes,
		})
	}
	return out
}

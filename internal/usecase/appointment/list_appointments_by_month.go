package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	salonID uint,
	staffID uint,
	year int,
	month int,
) ([]dto.CalendarEntry, error) {

	if year < 2000 || year > 2100 {
		return nil, httperr.ErrValidation("invalid_year")
	}
	if month < 1 || month > 12 {
		return nil, httperr.ErrValidation("invalid_month")
	}

	salon, err := uc.repo.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(salon.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

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

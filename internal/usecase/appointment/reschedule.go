package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type RescheduleInput struct {
	SalonID       uint
	AppointmentID uint

	// StaffID zero keeps the current staff member.
	StaffID uint

	Start time.Time
	Date  string
	Time  string

	ExpectedVersion *int
	Holder          string
	ActorID         *uint
}

type RescheduleAppointment struct {
	Deps
}

func NewRescheduleAppointment(deps Deps) *RescheduleAppointment {
	return &RescheduleAppointment{Deps: deps}
}

const rescheduleText = "Hi {{name}}, your {{service}} has moved to {{when}}."

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	salon, err := uc.Repo.GetSalon(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.Repo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion != ap.Version {
		return nil, httperr.ErrConflict("version_mismatch")
	}
	if !domain.Reschedulable(domain.Status(ap.Status)) {
		return nil, httperr.ErrValidation("not_reschedulable")
	}

	start, err := resolveStart(salon, in.Start, in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := checkAdvance(salon, start, now); err != nil {
		return nil, err
	}

	staffID := in.StaffID
	if staffID == 0 {
		staffID = ap.StaffID
	}

	service, err := uc.Repo.GetService(ctx, in.SalonID, ap.ServiceID)
	if err != nil {
		return nil, err
	}

	// The booked length is kept even if the service changed since.
	end := start.Add(ap.EndTime.Sub(ap.StartTime))

	staff, err := uc.checkBookable(ctx, salon, service, staffID, start, end, in.Holder)
	if err != nil {
		return nil, err
	}

	stored := ap.Version
	previous := ap.StartTime
	ap.StaffID = staff.ID
	ap.Staff = *staff
	domain.Move(ap, start, now)

	if err := uc.Repo.RescheduleAppointment(ctx, ap, stored); err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			metrics.IncBookingConflict("time_conflict")
		}
		return nil, err
	}

	uc.dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": previous, "to": start, "staff_id": staff.ID},
	})
	uc.broadcast(in.SalonID, realtime.EventAppointmentRescheduled, ap)

	if uc.Notifier != nil && !ap.Client.SMSOptOut && ap.Client.Phone != "" {
		_, _ = uc.Notifier.Enqueue(ctx, notify.Message{
			SalonID:   salon.ID,
			Channel:   notify.ChannelSMS,
			Recipient: ap.Client.Phone,
			Text:      rescheduleText,
			Params: map[string]string{
				"name":    ap.Client.Name,
				"service": service.Name,
				"when":    start.In(timezone.Location(salon.Timezone)).Format("Mon Jan 2 15:04"),
			},
			Reference: fmt.Sprintf("appointment:%d", ap.ID),
		})
	}

	return ap, nil
}

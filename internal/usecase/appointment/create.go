package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	SalonID   uint
	StaffID   uint
	ServiceID uint

	// ClientID wins over the name/phone pair.
	ClientID    uint
	ClientName  string
	ClientPhone string
	ClientEmail string

	// Start wins over Date/Time, which are read in the salon's timezone.
	Start time.Time
	Date  string
	Time  string
	Notes string

	LockID string
	Holder string

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{Deps: deps}
}

const confirmationText = "Hi {{name}}, your {{service}} is booked for {{when}}. Reply CONFIRM to confirm."

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Salon + start time
	// --------------------------------------------------
	salon, err := uc.Repo.GetSalon(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	start, err := resolveStart(salon, in.Start, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := checkAdvance(salon, start, now); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Service + staff + schedule + locks
	// --------------------------------------------------
	service, err := uc.Repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	end := start.Add(service.Length())

	staff, err := uc.checkBookable(ctx, salon, service, in.StaffID, start, end, in.Holder)
	if err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			metrics.IncBookingConflict("slot_locked")
		}
		return nil, err
	}

	// --------------------------------------------------
	// Client
	// --------------------------------------------------
	client, err := uc.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Insert with conflict re-check
	// --------------------------------------------------
	ap := BuildAppointment(salon.ID, staff, service, client, start, in.Notes)
	ap.CreatedAt = now
	ap.UpdatedAt = now

	if err := uc.Repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			metrics.IncBookingConflict("time_conflict")
			uc.dispatch(audit.Event{
				SalonID:  in.SalonID,
				UserID:   in.ActorID,
				Action:   "appointment_conflict",
				Entity:   "appointment",
				Metadata: map[string]any{"staff_id": staff.ID, "start": start, "end": end},
			})
		}
		return nil, err
	}
	ap.Client = *client
	ap.Staff = *staff
	ap.Service = *service

	if in.LockID != "" {
		if err := uc.Locks.Release(ctx, in.SalonID, in.LockID, in.Holder); err == nil {
			uc.broadcast(in.SalonID, realtime.EventSlotReleased, map[string]any{"lock_id": in.LockID})
		}
	}

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	metrics.IncAppointmentCreated()
	uc.dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.broadcast(in.SalonID, realtime.EventAppointmentCreated, ap)
	uc.enqueueConfirmation(ctx, salon, ap)

	return ap, nil
}

func (uc *CreateAppointment) resolveClient(ctx context.Context, in CreateAppointmentInput) (*models.Client, error) {
	if in.ClientID != 0 {
		return uc.Repo.GetClient(ctx, in.SalonID, in.ClientID)
	}

	name := strings.TrimSpace(in.ClientName)
	if name == "" || strings.TrimSpace(in.ClientPhone) == "" {
		return nil, httperr.ErrValidation("missing_client")
	}
	phone := validators.NormalizePhone(in.ClientPhone)
	if phone == "" {
		return nil, httperr.ErrValidation("invalid_phone")
	}
	return uc.Repo.GetOrCreateClient(ctx, in.SalonID, name, phone, strings.TrimSpace(in.ClientEmail))
}

func (uc *CreateAppointment) enqueueConfirmation(ctx context.Context, salon *models.Salon, ap *models.Appointment) {
	if uc.Notifier == nil || ap.Client.SMSOptOut || ap.Client.Phone == "" {
		return
	}

	when := ap.StartTime.In(timezone.Location(salon.Timezone)).Format("Mon Jan 2 15:04")
	_, _ = uc.Notifier.Enqueue(ctx, notify.Message{
		SalonID:   salon.ID,
		Channel:   notify.ChannelSMS,
		Recipient: ap.Client.Phone,
		Text:      confirmationText,
		Params: map[string]string{
			"name":    ap.Client.Name,
			"service": ap.Service.Name,
			"when":    when,
		},
		Reference: fmt.Sprintf("appointment:%d", ap.ID),
	})
}

// BuildAppointment assembles a new appointment with the service's price
// and deposit frozen at booking time.
func BuildAppointment(
	salonID uint,
	staff *models.Staff,
	service *models.Service,
	client *models.Client,
	start time.Time,
	notes string,
) *models.Appointment {

	deposit := service.DepositCents
	if deposit == 0 && service.DepositPercent > 0 {
		deposit = service.PriceCents * int64(service.DepositPercent) / 100
	}

	return &models.Appointment{
		SalonID:           salonID,
		StaffID:           staff.ID,
		ClientID:          client.ID,
		ServiceID:         service.ID,
		StartTime:         start,
		EndTime:           start.Add(service.Length()),
		Status:            string(domain.InitialStatus()),
		ServicePriceCents: service.PriceCents,
		DepositCents:      deposit,
		DepositPercent:    service.DepositPercent,
		Version:           1,
		Notes:             notes,
	}
}

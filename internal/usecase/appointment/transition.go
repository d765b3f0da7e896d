package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
)

type TransitionInput struct {
	SalonID       uint
	AppointmentID uint
	Target        domain.Status

	// ExpectedVersion, when set, must match the stored version.
	ExpectedVersion *int

	Reason  string
	ActorID *uint
}

type TransitionAppointment struct {
	Deps
}

func NewTransitionAppointment(deps Deps) *TransitionAppointment {
	return &TransitionAppointment{Deps: deps}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Appointment, error) {

	if !in.Target.Valid() {
		return nil, httperr.ErrValidation("invalid_status")
	}

	ap, err := uc.Repo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if in.ExpectedVersion != nil && *in.ExpectedVersion != ap.Version {
		return nil, httperr.ErrConflict("version_mismatch")
	}
	stored := ap.Version

	now := uc.now()
	if in.Target == domain.StatusCancelled {
		err = domain.Cancel(ap, in.Reason, in.ActorID, now)
	} else {
		err = domain.Transition(ap, in.Target, now)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateAppointment(ctx, ap, stored); err != nil {
		return nil, err
	}

	// the status change is already committed
	if err := uc.Repo.RecordClientOutcome(ctx, in.SalonID, ap.ClientID, in.Target, now); err != nil {
		uc.logger().Error().Err(err).
			Uint("salon_id", in.SalonID).
			Uint("appointment_id", ap.ID).
			Uint("client_id", ap.ClientID).
			Msg("client stats update failed")
	}

	metrics.IncTransition(string(in.Target))
	uc.dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "appointment_" + string(in.Target),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": in.Reason},
	})
	uc.broadcast(in.SalonID, realtime.EventAppointmentUpdated, ap)

	return ap, nil
}

package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
	apuc "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// Reply actions.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
	ActionConfirm = "confirm"
	ActionOptOut  = "opt_out"
	ActionOptIn   = "opt_in"
	ActionTaken   = "taken"
	ActionNone    = "none"
	ActionUnknown = "unknown"
)

type InboundSMS struct {
	To   string
	From string
	Body string
}

// Reply is what the client is told back. A slot taken in the meantime is
// a reply, not an error.
type Reply struct {
	Action        string `json:"action"`
	Message       string `json:"message"`
	EntryID       uint   `json:"entry_id,omitempty"`
	AppointmentID uint   `json:"appointment_id,omitempty"`
}

type HandleReply struct {
	Deps
}

func NewHandleReply(deps Deps) *HandleReply {
	return &HandleReply{Deps: deps}
}

func keyword(body string) string {
	fields := strings.Fields(strings.ToUpper(body))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".!,")
}

func (uc *HandleReply) Execute(ctx context.Context, in InboundSMS) (Reply, error) {
	to := validators.NormalizePhone(in.To)
	if to == "" {
		return Reply{}, httperr.ErrNotFound("salon_not_found")
	}
	salon, err := uc.Appointments.GetSalonBySMSNumber(ctx, to)
	if err != nil {
		return Reply{}, err
	}

	from := validators.NormalizePhone(in.From)
	if from == "" {
		return Reply{}, httperr.ErrNotFound("client_not_found")
	}
	client, err := uc.Appointments.FindClientByPhone(ctx, salon.ID, from)
	if err != nil {
		return Reply{}, err
	}

	switch keyword(in.Body) {
	case "YES", "Y":
		return uc.accept(ctx, salon, client)
	case "NO", "N":
		return uc.decline(ctx, salon, client)
	case "CONFIRM":
		return uc.confirm(ctx, salon, client)
	case "STOP", "UNSUBSCRIBE":
		return uc.optOut(ctx, client, true)
	case "START", "UNSTOP":
		return uc.optOut(ctx, client, false)
	default:
		return Reply{
			Action:  ActionUnknown,
			Message: "Reply YES to book, NO to skip, CONFIRM to confirm your visit or STOP to opt out.",
		}, nil
	}
}

func (uc *HandleReply) accept(ctx context.Context, salon *models.Salon, client *models.Client) (Reply, error) {
	entry, err := uc.Repo.LatestNotifiedForClient(ctx, salon.ID, client.ID)
	if err != nil {
		return Reply{}, err
	}
	if entry == nil {
		return Reply{Action: ActionNone, Message: "There is no pending offer for you."}, nil
	}

	offer, ok := entry.LastOffer()
	if !ok {
		return uc.reopen(ctx, entry, "There is no pending offer for you.")
	}

	ap, err := uc.Booker.Execute(ctx, apuc.CreateAppointmentInput{
		SalonID:   salon.ID,
		StaffID:   offer.StaffID,
		ServiceID: entry.ServiceID,
		ClientID:  client.ID,
		Start:     offer.Start,
		Notes:     "Booked from waitlist",
		Holder:    fmt.Sprintf("waitlist:%d", entry.ID),
	})
	if err != nil {
		var be httperr.BusinessError
		if !errors.As(err, &be) {
			return Reply{}, err
		}
		uc.logger().Info().
			Uint("entry_id", entry.ID).
			Str("reason", be.Code).
			Msg("waitlist offer no longer bookable")
		return uc.reopen(ctx, entry, "Sorry, that slot was just taken. We will keep looking for you.")
	}

	entry.Status = models.WaitlistBooked
	entry.AppointmentID = &ap.ID
	entry.UpdatedAt = uc.now()
	if err := uc.Repo.UpdateEntry(ctx, entry); err != nil {
		return Reply{}, err
	}

	uc.dispatch(audit.Event{
		SalonID:  salon.ID,
		Action:   "waitlist_booked",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
		Metadata: map[string]any{"appointment_id": ap.ID},
	})
	uc.broadcast(salon.ID, realtime.EventWaitlistBooked, entry)

	return Reply{
		Action:        ActionAccept,
		Message:       "You are booked. See you soon!",
		EntryID:       entry.ID,
		AppointmentID: ap.ID,
	}, nil
}

// reopen puts the entry back in the active pool.
func (uc *HandleReply) reopen(ctx context.Context, entry *models.WaitlistEntry, message string) (Reply, error) {
	entry.Status = models.WaitlistActive
	entry.UpdatedAt = uc.now()
	if err := uc.Repo.UpdateEntry(ctx, entry); err != nil {
		return Reply{}, err
	}
	return Reply{Action: ActionTaken, Message: message, EntryID: entry.ID}, nil
}

func (uc *HandleReply) decline(ctx context.Context, salon *models.Salon, client *models.Client) (Reply, error) {
	entry, err := uc.Repo.LatestNotifiedForClient(ctx, salon.ID, client.ID)
	if err != nil {
		return Reply{}, err
	}
	if entry == nil {
		return Reply{Action: ActionNone, Message: "There is no pending offer for you."}, nil
	}

	entry.Status = models.WaitlistActive
	entry.UpdatedAt = uc.now()
	if err := uc.Repo.UpdateEntry(ctx, entry); err != nil {
		return Reply{}, err
	}
	return Reply{
		Action:  ActionDecline,
		Message: "No problem, you stay on the waitlist.",
		EntryID: entry.ID,
	}, nil
}

func (uc *HandleReply) confirm(ctx context.Context, salon *models.Salon, client *models.Client) (Reply, error) {
	now := uc.now()
	ap, err := uc.Appointments.FindNextAppointmentForClient(ctx, salon.ID, client.ID, now)
	if err != nil {
		return Reply{}, err
	}
	if ap == nil {
		return Reply{Action: ActionNone, Message: "You have no upcoming appointment."}, nil
	}

	stored := ap.Version
	ap.ClientConfirmedAt = &now
	ap.Version++
	ap.UpdatedAt = now
	if err := uc.Appointments.UpdateAppointment(ctx, ap, stored); err != nil {
		return Reply{}, err
	}

	uc.broadcast(salon.ID, realtime.EventAppointmentUpdated, ap)
	return Reply{
		Action:        ActionConfirm,
		Message:       "Thanks, your appointment is confirmed.",
		AppointmentID: ap.ID,
	}, nil
}

func (uc *HandleReply) optOut(ctx context.Context, client *models.Client, out bool) (Reply, error) {
	client.SMSOptOut = out
	client.UpdatedAt = uc.now()
	if err := uc.Appointments.UpdateClient(ctx, client); err != nil {
		return Reply{}, err
	}

	if out {
		return Reply{Action: ActionOptOut, Message: "You will no longer receive messages. Reply START to opt back in."}, nil
	}
	return Reply{Action: ActionOptIn, Message: "You are subscribed to messages again."}, nil
}

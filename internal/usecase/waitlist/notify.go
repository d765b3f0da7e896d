package waitlist

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/waitlist"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type NotifyInput struct {
	SalonID uint
	EntryID uint
	StaffID uint
	Start   time.Time
	ActorID *uint
}

// NotifyMatch offers a slot to a waitlisted client and waits for their
// SMS reply.
type NotifyMatch struct {
	Deps
}

func NewNotifyMatch(deps Deps) *NotifyMatch {
	return &NotifyMatch{Deps: deps}
}

const offerText = "Hi {{name}}, a {{service}} slot opened {{when}} with {{staff}}. Reply YES to book or NO to skip."

func (uc *NotifyMatch) Execute(ctx context.Context, in NotifyInput) (*models.WaitlistEntry, error) {
	if in.StaffID == 0 || in.Start.IsZero() {
		return nil, httperr.ErrValidation("invalid_request")
	}

	salon, err := uc.Appointments.GetSalon(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.Repo.GetEntry(ctx, in.SalonID, in.EntryID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if !domain.Open(entry, now) {
		return nil, httperr.ErrValidation("waitlist_closed")
	}
	if in.Start.Before(now) {
		return nil, httperr.ErrValidation("in_the_past")
	}

	staff, err := uc.Appointments.GetStaff(ctx, in.SalonID, in.StaffID)
	if err != nil {
		return nil, err
	}

	end := in.Start.Add(entry.Service.Length())
	taken, err := uc.Appointments.HasConflict(ctx, in.SalonID, staff.ID, in.Start, end, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrConflict("slot_taken")
	}

	offers := append(entry.OfferedSlots.Data(), models.OfferedSlot{
		StaffID:   staff.ID,
		Start:     in.Start.UTC(),
		End:       end.UTC(),
		OfferedAt: now.UTC(),
	})
	entry.OfferedSlots = datatypes.NewJSONType(offers)
	entry.Status = models.WaitlistNotified
	entry.NotifiedAt = &now
	entry.UpdatedAt = now

	if err := uc.Repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	if uc.Notifier != nil && !entry.Client.SMSOptOut && entry.Client.Phone != "" {
		_, err := uc.Notifier.Enqueue(ctx, notify.Message{
			SalonID:   in.SalonID,
			Channel:   notify.ChannelSMS,
			Recipient: entry.Client.Phone,
			Text:      offerText,
			Params: map[string]string{
				"name":    entry.Client.Name,
				"service": entry.Service.Name,
				"staff":   staff.Label(),
				"when":    in.Start.In(timezone.Location(salon.Timezone)).Format("Mon Jan 2 15:04"),
			},
			Reference: fmt.Sprintf("waitlist:%d", entry.ID),
		})
		if err != nil {
			uc.logger().Warn().Err(err).Uint("entry_id", entry.ID).Msg("waitlist offer not queued")
		}
	}

	uc.dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "waitlist_notified",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
		Metadata: map[string]any{"staff_id": staff.ID, "start": in.Start},
	})
	return entry, nil
}

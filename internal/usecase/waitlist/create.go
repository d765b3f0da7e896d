package waitlist

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type CreateEntryInput struct {
	SalonID   uint
	ServiceID uint

	ClientID    uint
	ClientName  string
	ClientPhone string
	ClientEmail string

	Description string

	// Preference replaces the parsed description when set.
	Preference *models.AvailabilityPreference
	ExpiresAt  *time.Time

	ActorID *uint
}

type CreateEntry struct {
	Deps
}

func NewCreateEntry(deps Deps) *CreateEntry {
	return &CreateEntry{Deps: deps}
}

func (uc *CreateEntry) Execute(ctx context.Context, in CreateEntryInput) (*models.WaitlistEntry, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" && in.Preference == nil {
		return nil, httperr.ErrValidation("missing_availability")
	}

	service, err := uc.Appointments.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	client, err := uc.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	var pref models.AvailabilityPreference
	if in.Preference != nil {
		pref = *in.Preference
	} else {
		staff, err := uc.Appointments.ListActiveStaff(ctx, in.SalonID)
		if err != nil {
			return nil, err
		}
		pref = uc.Parser.Parse(description, staff)
	}

	now := uc.now()
	expires := now.AddDate(0, 0, uc.expiryDays())
	if in.ExpiresAt != nil {
		if !in.ExpiresAt.After(now) {
			return nil, httperr.ErrValidation("invalid_expiry")
		}
		expires = *in.ExpiresAt
	}

	entry := &models.WaitlistEntry{
		SalonID:                 in.SalonID,
		ClientID:                client.ID,
		ServiceID:               service.ID,
		AvailabilityDescription: description,
		Preference:              datatypes.NewJSONType(pref),
		Status:                  models.WaitlistActive,
		OfferedSlots:            datatypes.NewJSONType([]models.OfferedSlot{}),
		ExpiresAt:               expires,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := uc.Repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Client = *client
	entry.Service = *service

	uc.dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "waitlist_created",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
	})
	return entry, nil
}

func (uc *CreateEntry) expiryDays() int {
	if uc.ExpiryDays > 0 {
		return uc.ExpiryDays
	}
	return DefaultExpiryDays
}

func (uc *CreateEntry) resolveClient(ctx context.Context, in CreateEntryInput) (*models.Client, error) {
	if in.ClientID != 0 {
		return uc.Appointments.GetClient(ctx, in.SalonID, in.ClientID)
	}
	name := strings.TrimSpace(in.ClientName)
	if name == "" || strings.TrimSpace(in.ClientPhone) == "" {
		return nil, httperr.ErrValidation("missing_client")
	}
	phone := validators.NormalizePhone(in.ClientPhone)
	if phone == "" {
		return nil, httperr.ErrValidation("invalid_phone")
	}
	return uc.Appointments.GetOrCreateClient(ctx, in.SalonID, name, phone, strings.TrimSpace(in.ClientEmail))
}

// ======================================================
// LIST / CANCEL
// ======================================================

type ListEntries struct {
	Deps
}

func NewListEntries(deps Deps) *ListEntries {
	return &ListEntries{Deps: deps}
}

func (uc *ListEntries) Execute(ctx context.Context, salonID uint, status string) ([]models.WaitlistEntry, error) {
	switch status {
	case "", models.WaitlistActive, models.WaitlistNotified, models.WaitlistBooked,
		models.WaitlistExpired, models.WaitlistCancelled:
	default:
		return nil, httperr.ErrValidation("invalid_status")
	}
	return uc.Repo.ListEntries(ctx, salonID, status)
}

type CancelEntry struct {
	Deps
}

func NewCancelEntry(deps Deps) *CancelEntry {
	return &CancelEntry{Deps: deps}
}

func (uc *CancelEntry) Execute(ctx context.Context, salonID, entryID uint, actorID *uint) (*models.WaitlistEntry, error) {
	entry, err := uc.Repo.GetEntry(ctx, salonID, entryID)
	if err != nil {
		return nil, err
	}
	switch entry.Status {
	case models.WaitlistBooked, models.WaitlistCancelled, models.WaitlistExpired:
		return nil, httperr.ErrValidation("waitlist_closed")
	}

	entry.Status = models.WaitlistCancelled
	entry.UpdatedAt = uc.now()
	if err := uc.Repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	uc.dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   actorID,
		Action:   "waitlist_cancelled",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
	})
	return entry, nil
}

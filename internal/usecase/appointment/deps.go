package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

// Broadcaster is the real-time sink. It must not block.
type Broadcaster interface {
	Broadcast(salonID uint, eventType string, payload any)
}

type SlotLocks interface {
	Acquire(ctx context.Context, in lock.AcquireInput) (*models.SlotLock, error)
	Release(ctx context.Context, salonID uint, lockID, holder string) error
	HeldByOther(ctx context.Context, salonID, staffID uint, start time.Time, holder string) (bool, error)
}

type Notifier interface {
	Enqueue(ctx context.Context, msg notify.Message) (*models.Notification, error)
}

// Deps bundles the collaborators shared by the booking use cases.
type Deps struct {
	Repo      domain.Repository
	Schedules schedule.Lookup
	Locks     SlotLocks
	Notifier  Notifier
	Audit     Auditor
	Events    Broadcaster
	Clock     timezone.Clock
	Logger    *zerolog.Logger
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return timezone.SystemClock()
	}
	return d.Clock()
}

func (d Deps) logger() *zerolog.Logger {
	if d.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return d.Logger
}

// ======================================================
// SHARED BOOKING RULES
// ======================================================

func staffEligible(service *models.Service, staffID uint) bool {
	allowed := service.EligibleStaff()
	if len(allowed) == 0 {
		return true
	}
	for _, id := range allowed {
		if id == staffID {
			return true
		}
	}
	return false
}

// resolveStart uses start when set, otherwise parses date and clock in
// the salon's timezone.
func resolveStart(salon *models.Salon, start time.Time, date, clock string) (time.Time, error) {
	if !start.IsZero() {
		return start.In(timezone.Location(salon.Timezone)), nil
	}
	parsed, err := timezone.ParseDateTime(date, clock, salon.Timezone)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date_or_time")
	}
	return parsed, nil
}

func checkAdvance(salon *models.Salon, start, now time.Time) error {
	if start.Before(now) {
		return httperr.ErrValidation("in_the_past")
	}
	minAllowed := now.Add(time.Duration(salon.MinAdvanceMinutes) * time.Minute)
	if start.Before(minAllowed) {
		return httperr.ErrValidation("too_soon")
	}
	return nil
}

// checkBookable runs every rule a new window must pass before the
// transactional conflict check: active eligible staff, inside working
// hours and not locked by someone else.
func (d Deps) checkBookable(
	ctx context.Context,
	salon *models.Salon,
	service *models.Service,
	staffID uint,
	start time.Time,
	end time.Time,
	holder string,
) (*models.Staff, error) {

	staff, err := d.Repo.GetStaff(ctx, salon.ID, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.Active {
		return nil, httperr.ErrNotFound("staff_not_found")
	}
	if !staffEligible(service, staff.ID) {
		return nil, httperr.ErrValidation("staff_not_eligible")
	}

	day := timezone.StartOfDay(start.In(timezone.Location(salon.Timezone)))
	intervals, err := schedule.Resolve(ctx, d.Schedules, salon.ID, staff.ID, day)
	if err != nil {
		return nil, err
	}
	if !schedule.Fits(intervals, start, end) {
		return nil, httperr.ErrValidation("outside_working_hours")
	}

	held, err := d.Locks.HeldByOther(ctx, salon.ID, staff.ID, start, holder)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, httperr.ErrConflict("slot_locked")
	}

	return staff, nil
}

func (d Deps) dispatch(ev audit.Event) {
	if d.Audit != nil {
		d.Audit.Dispatch(ev)
	}
}

func (d Deps) broadcast(salonID uint, eventType string, payload any) {
	if d.Events != nil {
		d.Events.Broadcast(salonID, eventType, payload)
	}
}

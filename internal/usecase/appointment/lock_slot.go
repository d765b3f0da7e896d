package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
)

type LockSlotInput struct {
	SalonID   uint
	StaffID   uint
	ServiceID uint

	Start time.Time
	Date  string
	Time  string

	Holder  string
	ActorID *uint
}

// LockSlot holds a window while a client finishes booking. The window
// length comes from the service.
type LockSlot struct {
	Deps
}

func NewLockSlot(deps Deps) *LockSlot {
	return &LockSlot{Deps: deps}
}

func (uc *LockSlot) Execute(ctx context.Context, in LockSlotInput) (*models.SlotLock, error) {
	salon, err := uc.Repo.GetSalon(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	start, err := resolveStart(salon, in.Start, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	service, err := uc.Repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.Repo.GetStaff(ctx, in.SalonID, in.StaffID); err != nil {
		return nil, err
	}

	lk, err := uc.Locks.Acquire(ctx, lock.AcquireInput{
		SalonID: in.SalonID,
		StaffID: in.StaffID,
		Start:   start,
		End:     start.Add(service.Length()),
		Holder:  in.Holder,
	})
	if err != nil {
		return nil, err
	}

	uc.dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "slot_locked",
		Entity:   "slot_lock",
		Metadata: map[string]any{"lock_id": lk.ID, "staff_id": lk.StaffID, "start": lk.StartTime},
	})
	uc.broadcast(in.SalonID, realtime.EventSlotLocked, lk)

	return lk, nil
}

type ReleaseSlot struct {
	Deps
}

func NewReleaseSlot(deps Deps) *ReleaseSlot {
	return &ReleaseSlot{Deps: deps}
}

// Execute succeeds whether or not the lock existed.
func (uc *ReleaseSlot) Execute(ctx context.Context, salonID uint, lockID, holder string) error {
	if err := uc.Locks.Release(ctx, salonID, lockID, holder); err != nil {
		return err
	}
	uc.broadcast(salonID, realtime.EventSlotReleased, map[string]any{"lock_id": lockID})
	return nil
}

// Package lock holds short-lived advisory reservations on a staff
// member's slot during interactive booking.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ErrSlotLocked means another holder owns an unexpired lock on the slot.
var ErrSlotLocked = errors.New("slot locked")

type Store interface {
	// Acquire stores lk unless another holder owns the slot. When lk.Holder
	// already owns it the stored lock keeps its ID and gets lk's expiry.
	Acquire(ctx context.Context, lk *models.SlotLock, now time.Time) (*models.SlotLock, error)

	// Release deletes the lock only when holder owns it.
	Release(ctx context.Context, salonID uint, lockID, holder string) error

	// Find returns the unexpired lock on the slot, or nil.
	Find(ctx context.Context, salonID, staffID uint, start, now time.Time) (*models.SlotLock, error)

	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

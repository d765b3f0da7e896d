package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

const DefaultTTL = 300 * time.Second

// ConflictChecker is the appointment overlap query.
type ConflictChecker interface {
	HasConflict(ctx context.Context, salonID, staffID uint, start, end time.Time, excludeID uint) (bool, error)
}

type Manager struct {
	store     Store
	conflicts ConflictChecker
	ttl       time.Duration
	clock     timezone.Clock
	logger    *zerolog.Logger
}

func NewManager(store Store, conflicts ConflictChecker, ttl time.Duration, logger *zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:     store,
		conflicts: conflicts,
		ttl:       ttl,
		clock:     timezone.SystemClock,
		logger:    logger,
	}
}

func (m *Manager) WithClock(clock timezone.Clock) *Manager {
	m.clock = clock
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

type AcquireInput struct {
	SalonID uint
	StaffID uint
	Start   time.Time
	End     time.Time
	Holder  string
}

func (m *Manager) Acquire(ctx context.Context, in AcquireInput) (*models.SlotLock, error) {
	if in.Holder == "" {
		return nil, httperr.ErrValidation("missing_holder")
	}
	if !in.End.After(in.Start) {
		return nil, httperr.ErrValidation("invalid_time_range")
	}

	busy, err := m.conflicts.HasConflict(ctx, in.SalonID, in.StaffID, in.Start, in.End, 0)
	if err != nil {
		return nil, err
	}
	if busy {
		metrics.IncLockAcquisition("booked")
		return nil, httperr.ErrConflict("slot_booked")
	}

	now := m.clock()
	lk, err := m.store.Acquire(ctx, &models.SlotLock{
		ID:        uuid.NewString(),
		SalonID:   in.SalonID,
		StaffID:   in.StaffID,
		StartTime: in.Start,
		EndTime:   in.End,
		Holder:    in.Holder,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}, now)
	if errors.Is(err, ErrSlotLocked) {
		metrics.IncLockAcquisition("locked")
		return nil, httperr.ErrConflict("slot_locked")
	}
	if err != nil {
		return nil, err
	}

	metrics.IncLockAcquisition("acquired")
	m.logger.Debug().
		Str("lock_id", lk.ID).
		Uint("salon_id", in.SalonID).
		Uint("staff_id", in.StaffID).
		Time("expires_at", lk.ExpiresAt).
		Msg("slot lock acquired")
	return lk, nil
}

// Release never reports whether the lock existed or who holds it.
func (m *Manager) Release(ctx context.Context, salonID uint, lockID, holder string) error {
	return m.store.Release(ctx, salonID, lockID, holder)
}

// HeldByOther reports whether someone other than holder has an unexpired
// lock on the slot.
func (m *Manager) HeldByOther(ctx context.Context, salonID, staffID uint, start time.Time, holder string) (bool, error) {
	lk, err := m.store.Find(ctx, salonID, staffID, start, m.clock())
	if err != nil || lk == nil {
		return false, err
	}
	return lk.Holder != holder, nil
}

func (m *Manager) Purge(ctx context.Context) (int64, error) {
	n, err := m.store.PurgeExpired(ctx, m.clock())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.Info().Int64("count", n).Msg("expired slot locks purged")
	}
	return n, nil
}

package waitlist

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Repository interface {
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) error
	GetEntry(ctx context.Context, salonID, entryID uint) (*models.WaitlistEntry, error)
	ListEntries(ctx context.Context, salonID uint, status string) ([]models.WaitlistEntry, error)
	ListActive(ctx context.Context, salonID uint) ([]models.WaitlistEntry, error)
	UpdateEntry(ctx context.Context, entry *models.WaitlistEntry) error
	ExpireBefore(ctx context.Context, salonID uint, now time.Time) (int64, error)

	// LatestNotifiedForClient is the entry an inbound SMS reply refers to.
	LatestNotifiedForClient(ctx context.Context, salonID, clientID uint) (*models.WaitlistEntry, error)
}

// Open reports whether the entry can still be matched or offered.
func Open(entry *models.WaitlistEntry, now time.Time) bool {
	if entry.Status != models.WaitlistActive && entry.Status != models.WaitlistNotified {
		return false
	}
	return entry.ExpiresAt.IsZero() || entry.ExpiresAt.After(now)
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/waitlist"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type WaitlistGormRepository struct {
	db *gorm.DB
}

func NewWaitlistGormRepository(db *gorm.DB) *WaitlistGormRepository {
	return &WaitlistGormRepository{db: db}
}

func (r *WaitlistGormRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	entry.ExpiresAt = entry.ExpiresAt.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *WaitlistGormRepository) GetEntry(ctx context.Context, salonID, entryID uint) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ? AND salon_id = ?", entryID, salonID).
		First(&entry).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "waitlist_not_found")
	}
	return &entry, nil
}

// ListEntries lists the salon's entries, newest first. An empty status
// lists all of them.
func (r *WaitlistGormRepository) ListEntries(ctx context.Context, salonID uint, status string) ([]models.WaitlistEntry, error) {
	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("salon_id = ?", salonID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var entries []models.WaitlistEntry
	if err := q.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListActive returns entries waiting for a match, oldest first.
func (r *WaitlistGormRepository) ListActive(ctx context.Context, salonID uint) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("salon_id = ? AND status = ?", salonID, models.WaitlistActive).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistGormRepository) UpdateEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	entry.ExpiresAt = entry.ExpiresAt.UTC()
	return r.db.WithContext(ctx).
		Model(entry).
		Where("salon_id = ?", entry.SalonID).
		Select("*").
		Omit(clause.Associations, "CreatedAt").
		Updates(entry).Error
}

func (r *WaitlistGormRepository) ExpireBefore(ctx context.Context, salonID uint, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where(
			"salon_id = ? AND status IN ? AND expires_at <= ?",
			salonID,
			[]string{models.WaitlistActive, models.WaitlistNotified},
			now.UTC(),
		).
		Update("status", models.WaitlistExpired)
	return res.RowsAffected, res.Error
}

func (r *WaitlistGormRepository) LatestNotifiedForClient(ctx context.Context, salonID, clientID uint) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("salon_id = ? AND client_id = ? AND status = ?", salonID, clientID, models.WaitlistNotified).
		Order("notified_at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

var _ waitlist.Repository = (*WaitlistGormRepository)(nil)

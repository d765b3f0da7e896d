package lock

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// GormStore keeps locks in the slot_locks table. The unique index on
// (salon_id, staff_id, start_time) arbitrates concurrent inserts.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) Acquire(ctx context.Context, lk *models.SlotLock, now time.Time) (*models.SlotLock, error) {
	lk.StartTime = lk.StartTime.UTC()
	lk.EndTime = lk.EndTime.UTC()
	lk.ExpiresAt = lk.ExpiresAt.UTC()
	now = now.UTC()

	var out *models.SlotLock
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("salon_id = ? AND staff_id = ? AND start_time = ? AND expires_at <= ?",
				lk.SalonID, lk.StaffID, lk.StartTime, now).
			Delete(&models.SlotLock{}).Error; err != nil {
			return err
		}

		var existing models.SlotLock
		err := tx.
			Where("salon_id = ? AND staff_id = ? AND start_time = ?", lk.SalonID, lk.StaffID, lk.StartTime).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Holder != lk.Holder {
				return ErrSlotLocked
			}
			existing.EndTime = lk.EndTime
			existing.ExpiresAt = lk.ExpiresAt
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			out = &existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Create(lk).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return ErrSlotLocked
			}
			return err
		}
		out = lk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) Release(ctx context.Context, salonID uint, lockID, holder string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND holder = ?", lockID, salonID, holder).
		Delete(&models.SlotLock{}).Error
}

func (s *GormStore) Find(ctx context.Context, salonID, staffID uint, start, now time.Time) (*models.SlotLock, error) {
	var lk models.SlotLock
	err := s.db.WithContext(ctx).
		Where("salon_id = ? AND staff_id = ? AND start_time = ? AND expires_at > ?",
			salonID, staffID, start.UTC(), now.UTC()).
		First(&lk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lk, nil
}

func (s *GormStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&models.SlotLock{})
	return res.RowsAffected, res.Error
}

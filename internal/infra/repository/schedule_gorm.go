package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

// GetWorkingHours returns nil when the weekday has no entry.
func (r *ScheduleGormRepository) GetWorkingHours(
	ctx context.Context,
	salonID uint,
	staffID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND staff_id = ? AND weekday = ?", salonID, staffID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *ScheduleGormRepository) ListWorkingHours(ctx context.Context, salonID, staffID uint) ([]models.WorkingHours, error) {
	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND staff_id = ?", salonID, staffID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *ScheduleGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	salonID uint,
	staffID uint,
	week []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("salon_id = ? AND staff_id = ?", salonID, staffID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(week) == 0 {
			return nil
		}

		for i := range week {
			week[i].ID = 0
			week[i].SalonID = salonID
			week[i].StaffID = staffID
		}
		return tx.Create(&week).Error
	})
}

// --------------------------------------------------
// Overrides
// --------------------------------------------------

// GetOverride returns nil when the date has no override.
func (r *ScheduleGormRepository) GetOverride(
	ctx context.Context,
	salonID uint,
	staffID uint,
	date string,
) (*models.ScheduleOverride, error) {

	var ov models.ScheduleOverride
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND staff_id = ? AND date = ?", salonID, staffID, date).
		First(&ov).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// ListOverrides filters by date when from/to are set ("YYYY-MM-DD").
func (r *ScheduleGormRepository) ListOverrides(
	ctx context.Context,
	salonID uint,
	staffID uint,
	from string,
	to string,
) ([]models.ScheduleOverride, error) {

	q := r.db.WithContext(ctx).Where("salon_id = ? AND staff_id = ?", salonID, staffID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var out []models.ScheduleOverride
	if err := q.Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleGormRepository) CreateOverride(ctx context.Context, ov *models.ScheduleOverride) error {
	err := r.db.WithContext(ctx).Create(ov).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrConflict("duplicate_override_date")
	}
	return err
}

func (r *ScheduleGormRepository) DeleteOverride(ctx context.Context, salonID, staffID, overrideID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND staff_id = ?", overrideID, salonID, staffID).
		Delete(&models.ScheduleOverride{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("override_not_found")
	}
	return nil
}

var _ schedule.Repository = (*ScheduleGormRepository)(nil)

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSalon(ctx context.Context, salonID uint) (*models.Salon, error) {
	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, salonID).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "salon_not_found")
	}
	return &salon, nil
}

func (r *AppointmentGormRepository) GetSalonBySMSNumber(ctx context.Context, number string) (*models.Salon, error) {
	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("sms_number = ?", number).
		First(&salon).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "salon_not_found")
	}
	return &salon, nil
}

// --------------------------------------------------
// Service / Staff
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(ctx context.Context, salonID, serviceID uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", serviceID, salonID).
		First(&service).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "service_not_found")
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetStaff(ctx context.Context, salonID, staffID uint) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", staffID, salonID).
		First(&staff).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "staff_not_found")
	}
	return &staff, nil
}

func (r *AppointmentGormRepository) ListActiveStaff(ctx context.Context, salonID uint) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active = ?", salonID, true).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	salonID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	client, err := r.FindClientByPhone(ctx, salonID, phone)
	if err == nil {
		return client, nil
	}
	if !httperr.IsKind(err, httperr.KindNotFound) {
		return nil, err
	}

	client = &models.Client{
		SalonID: salonID,
		Name:    name,
		Phone:   phone,
		Email:   email,
	}
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		// lost a race with another booking for the same phone
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.FindClientByPhone(ctx, salonID, phone)
		}
		return nil, err
	}
	return client, nil
}

func (r *AppointmentGormRepository) GetClient(ctx context.Context, salonID, clientID uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", clientID, salonID).
		First(&client).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "client_not_found")
	}
	return &client, nil
}

func (r *AppointmentGormRepository) FindClientByPhone(ctx context.Context, salonID uint, phone string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND phone = ?", salonID, phone).
		First(&client).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "client_not_found")
	}
	return &client, nil
}

func (r *AppointmentGormRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).
		Model(client).
		Where("salon_id = ?", client.SalonID).
		Select("*").
		Omit("CreatedAt").
		Updates(client).Error
}

func (r *AppointmentGormRepository) RecordClientOutcome(
	ctx context.Context,
	salonID uint,
	clientID uint,
	status domain.Status,
	at time.Time,
) error {

	updates := map[string]any{}
	switch status {
	case domain.StatusCompleted:
		updates["completed_count"] = gorm.Expr("completed_count + 1")
		updates["last_visit_at"] = at.UTC()
	case domain.StatusCancelled:
		updates["cancelled_count"] = gorm.Expr("cancelled_count + 1")
	case domain.StatusNoShow:
		updates["no_show_count"] = gorm.Expr("no_show_count + 1")
	default:
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND salon_id = ?", clientID, salonID).
		Updates(updates).Error
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func conflictQuery(tx *gorm.DB, salonID, staffID uint, start, end time.Time, excludeID uint) *gorm.DB {
	q := tx.Model(&models.Appointment{}).
		Where(
			"salon_id = ? AND staff_id = ? AND status NOT IN ? AND start_time < ? AND end_time > ?",
			salonID, staffID, domain.NonBlockingStatuses(), end.UTC(), start.UTC(),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

func hasConflict(tx *gorm.DB, salonID, staffID uint, start, end time.Time, excludeID uint) (bool, error) {
	var ids []uint
	if err := conflictQuery(tx, salonID, staffID, start, end, excludeID).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// lockStaff serializes writers on one staff member's calendar. SQLite
// already serializes write transactions.
func lockStaff(tx *gorm.DB, salonID, staffID uint) error {
	if !db.IsPostgres(tx) {
		return nil
	}
	var staff models.Staff
	return tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND salon_id = ?", staffID, salonID).
		First(&staff).Error
}

func (r *AppointmentGormRepository) HasConflict(
	ctx context.Context,
	salonID uint,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {
	return hasConflict(r.db.WithContext(ctx), salonID, staffID, start, end, excludeID)
}

func (r *AppointmentGormRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockStaff(tx, ap.SalonID, ap.StaffID); err != nil {
			return httperr.NotFoundOr(err, "staff_not_found")
		}

		busy, err := hasConflict(tx, ap.SalonID, ap.StaffID, ap.StartTime, ap.EndTime, 0)
		if err != nil {
			return err
		}
		if busy {
			return httperr.ErrConflict("time_conflict")
		}

		return tx.Omit(clause.Associations).Create(ap).Error
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, salonID, appointmentID uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "appointment_not_found")
	}
	return &ap, nil
}

func saveVersioned(tx *gorm.DB, ap *models.Appointment, expectedVersion int) error {
	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()

	res := tx.Model(ap).
		Where("salon_id = ? AND version = ?", ap.SalonID, expectedVersion).
		Select("*").
		Omit(clause.Associations, "CreatedAt").
		Updates(ap)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Appointment{}).
			Where("id = ? AND salon_id = ?", ap.ID, ap.SalonID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return httperr.ErrNotFound("appointment_not_found")
		}
		return httperr.ErrConflict("version_mismatch")
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment, expectedVersion int) error {
	return saveVersioned(r.db.WithContext(ctx), ap, expectedVersion)
}

func (r *AppointmentGormRepository) RescheduleAppointment(ctx context.Context, ap *models.Appointment, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockStaff(tx, ap.SalonID, ap.StaffID); err != nil {
			return httperr.NotFoundOr(err, "staff_not_found")
		}

		busy, err := hasConflict(tx, ap.SalonID, ap.StaffID, ap.StartTime, ap.EndTime, ap.ID)
		if err != nil {
			return err
		}
		if busy {
			return httperr.ErrConflict("time_conflict")
		}

		return saveVersioned(tx, ap, expectedVersion)
	})
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

// ListAppointmentsForStaff returns the blocking appointments overlapping
// [start, end).
func (r *AppointmentGormRepository) ListAppointmentsForStaff(
	ctx context.Context,
	salonID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := conflictQuery(r.db.WithContext(ctx), salonID, staffID, start, end, 0).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ListAppointmentsForPeriod returns every appointment starting in
// [start, end), any status. staffID 0 means the whole salon.
func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	salonID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		Where("salon_id = ? AND start_time >= ? AND start_time < ?", salonID, start.UTC(), end.UTC())
	if staffID != 0 {
		q = q.Where("staff_id = ?", staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) FindNextAppointmentForClient(
	ctx context.Context,
	salonID uint,
	clientID uint,
	after time.Time,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where(
			"salon_id = ? AND client_id = ? AND status IN ? AND start_time > ?",
			salonID, clientID,
			[]string{string(domain.StatusPendingDeposit), string(domain.StatusConfirmed)},
			after.UTC(),
		).
		Order("start_time ASC").
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)

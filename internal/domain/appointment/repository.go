package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Repository interface {
	// -------- Salon --------
	GetSalon(ctx context.Context, salonID uint) (*models.Salon, error)
	GetSalonBySMSNumber(ctx context.Context, number string) (*models.Salon, error)

	// -------- Service / Staff --------
	GetService(ctx context.Context, salonID, serviceID uint) (*models.Service, error)
	GetStaff(ctx context.Context, salonID, staffID uint) (*models.Staff, error)
	ListActiveStaff(ctx context.Context, salonID uint) ([]models.Staff, error)

	// -------- Client --------
	GetOrCreateClient(ctx context.Context, salonID uint, name, phone, email string) (*models.Client, error)
	GetClient(ctx context.Context, salonID, clientID uint) (*models.Client, error)
	FindClientByPhone(ctx context.Context, salonID uint, phone string) (*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	RecordClientOutcome(ctx context.Context, salonID, clientID uint, status Status, at time.Time) error

	// -------- Appointment (create / conflict) --------

	// CreateAppointment re-checks conflicts and inserts in one transaction.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	HasConflict(ctx context.Context, salonID, staffID uint, start, end time.Time, excludeID uint) (bool, error)

	// -------- Appointment (state change) --------
	GetAppointment(ctx context.Context, salonID, appointmentID uint) (*models.Appointment, error)

	// UpdateAppointment persists ap only when the stored version still equals
	// expectedVersion.
	UpdateAppointment(ctx context.Context, ap *models.Appointment, expectedVersion int) error

	// RescheduleAppointment is UpdateAppointment plus a conflict re-check of
	// the new window, excluding ap itself.
	RescheduleAppointment(ctx context.Context, ap *models.Appointment, expectedVersion int) error

	// -------- Calendar --------
	ListAppointmentsForStaff(ctx context.Context, salonID, staffID uint, start, end time.Time) ([]models.Appointment, error)
	ListAppointmentsForPeriod(ctx context.Context, salonID, staffID uint, start, end time.Time) ([]models.Appointment, error)
	FindNextAppointmentForClient(ctx context.Context, salonID, clientID uint, after time.Time) (*models.Appointment, error)
}

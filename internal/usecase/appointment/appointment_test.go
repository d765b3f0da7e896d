package appointment

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/dbtest"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
)

// Monday 2024-06-03, 08:00 UTC.
var now = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2024, 6, 3, h, m, 0, 0, time.UTC)
}

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

type recordingEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingEvents) Broadcast(_ uint, eventType string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
}

type fixture struct {
	db      *gorm.DB
	deps    Deps
	audit   *recordingAudit
	events  *recordingEvents
	salon   *models.Salon
	ana     *models.Staff
	bruno   *models.Staff
	service *models.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)

	repo := repository.NewAppointmentGormRepository(conn)
	clock := func() time.Time { return now }
	locks := lock.NewManager(lock.NewGormStore(conn), repo, lock.DefaultTTL, logging.Nop()).WithClock(clock)
	notifier := notify.NewDispatcher(repository.NewNotificationGormRepository(conn), nil, logging.Nop())

	f := &fixture{
		db:     conn,
		audit:  &recordingAudit{},
		events: &recordingEvents{},
	}
	f.deps = Deps{
		Repo:      repo,
		Schedules: repository.NewScheduleGormRepository(conn),
		Locks:     locks,
		Notifier:  notifier,
		Audit:     f.audit,
		Events:    f.events,
		Clock:     clock,
	}

	f.salon = dbtest.Salon(t, conn, "downtown")
	f.ana = dbtest.Staff(t, conn, f.salon.ID, "Ana")
	f.bruno = dbtest.Staff(t, conn, f.salon.ID, "Bruno")
	dbtest.Week(t, conn, f.salon.ID, f.ana.ID, "09:00", "17:00")
	dbtest.Week(t, conn, f.salon.ID, f.bruno.ID, "09:00", "17:00")
	f.service = dbtest.Service(t, conn, f.salon.ID, 30, 0)
	return f
}

func (f *fixture) book(t *testing.T, staffID uint, start time.Time, phone string) (*models.Appointment, error) {
	t.Helper()
	return NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		SalonID:     f.salon.ID,
		StaffID:     staffID,
		ServiceID:   f.service.ID,
		ClientName:  "Maria",
		ClientPhone: phone,
		Start:       start,
		Holder:      "session-" + phone,
	})
}

// ======================================================
// CREATE
// ======================================================

func TestCreateAppointmentSnapshotsPriceAndNotifies(t *testing.T) {
	f := setup(t)

	ap, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
	assert.Equal(t, 1, ap.Version)
	assert.True(t, ap.EndTime.Equal(at(10, 30)))
	assert.Equal(t, int64(4500), ap.ServicePriceCents)
	assert.Equal(t, int64(900), ap.DepositCents)

	var pending []models.Notification
	require.NoError(t, f.db.Where("salon_id = ?", f.salon.ID).Find(&pending).Error)
	require.Len(t, pending, 1)
	assert.Equal(t, "5550001", pending[0].Recipient)
	assert.Equal(t, models.NotificationPending, pending[0].Status)

	assert.Contains(t, f.audit.actions(), "appointment_created")
	assert.Contains(t, f.events.types, realtime.EventAppointmentCreated)
}

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	f := setup(t)

	_, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	_, err = f.book(t, f.ana.ID, at(10, 15), "5550002")
	assert.True(t, httperr.IsBusiness(err, "time_conflict"), "got %v", err)
	assert.Contains(t, f.audit.actions(), "appointment_conflict")

	_, err = f.book(t, f.bruno.ID, at(10, 15), "5550002")
	assert.NoError(t, err)

	// Back to back is fine.
	_, err = f.book(t, f.ana.ID, at(10, 30), "5550003")
	assert.NoError(t, err)
}

func TestCreateAppointmentRules(t *testing.T) {
	f := setup(t)
	onlyBruno := dbtest.Service(t, f.db, f.salon.ID, 45, 0, f.bruno.ID)

	_, err := f.book(t, f.ana.ID, at(7, 0), "5550001")
	assert.True(t, httperr.IsBusiness(err, "in_the_past"), "got %v", err)

	_, err = f.book(t, f.ana.ID, at(16, 45), "5550001")
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"), "got %v", err)

	_, err = NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		SalonID:     f.salon.ID,
		StaffID:     f.ana.ID,
		ServiceID:   onlyBruno.ID,
		ClientName:  "Maria",
		ClientPhone: "5550001",
		Start:       at(11, 0),
	})
	assert.True(t, httperr.IsBusiness(err, "staff_not_eligible"), "got %v", err)

	_, err = NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		SalonID:   f.salon.ID,
		StaffID:   f.ana.ID,
		ServiceID: f.service.ID,
		Start:     at(11, 0),
	})
	assert.True(t, httperr.IsBusiness(err, "missing_client"), "got %v", err)

	f.salon.MinAdvanceMinutes = 180
	require.NoError(t, f.db.Save(f.salon).Error)
	_, err = f.book(t, f.ana.ID, at(10, 0), "5550001")
	assert.True(t, httperr.IsBusiness(err, "too_soon"), "got %v", err)
}

func TestCreateAppointmentNormalizesClientPhone(t *testing.T) {
	f := setup(t)

	first, err := f.book(t, f.ana.ID, at(10, 0), "(555) 000-4321")
	require.NoError(t, err)
	second, err := f.book(t, f.bruno.ID, at(10, 0), "555-000-4321")
	require.NoError(t, err)
	assert.Equal(t, first.ClientID, second.ClientID)

	var clients []models.Client
	require.NoError(t, f.db.Where("salon_id = ?", f.salon.ID).Find(&clients).Error)
	require.Len(t, clients, 1)
	assert.Equal(t, "5550004321", clients[0].Phone)

	_, err = f.book(t, f.ana.ID, at(11, 0), "call me")
	assert.True(t, httperr.IsBusiness(err, "invalid_phone"), "got %v", err)
}

func TestCreateAppointmentIsScopedToSalon(t *testing.T) {
	f := setup(t)
	other := dbtest.Salon(t, f.db, "uptown")

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		SalonID:     other.ID,
		StaffID:     f.ana.ID,
		ServiceID:   f.service.ID,
		ClientName:  "Maria",
		ClientPhone: "5550001",
		Start:       at(10, 0),
	})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound), "got %v", err)
}

func TestCreateAppointmentHonoursLocks(t *testing.T) {
	f := setup(t)

	lk, err := NewLockSlot(f.deps).Execute(context.Background(), LockSlotInput{
		SalonID:   f.salon.ID,
		StaffID:   f.ana.ID,
		ServiceID: f.service.ID,
		Start:     at(10, 0),
		Holder:    "session-a",
	})
	require.NoError(t, err)
	assert.True(t, lk.EndTime.Equal(at(10, 30)))

	_, err = NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		SalonID:     f.salon.ID,
		StaffID:     f.ana.ID,
		ServiceID:   f.service.ID,
		ClientName:  "Other",
		ClientPhone: "5550009",
		Start:       at(10, 0),
		Holder:      "session-b",
	})
	assert.True(t, httperr.IsBusiness(err, "slot_locked"), "got %v", err)

	_, err = NewCreateAppointment(f.deps).Execute(context.Background(), CreateAppointmentInput{
		SalonID:     f.salon.ID,
		StaffID:     f.ana.ID,
		ServiceID:   f.service.ID,
		ClientName:  "Maria",
		ClientPhone: "5550001",
		Start:       at(10, 0),
		LockID:      lk.ID,
		Holder:      "session-a",
	})
	require.NoError(t, err)

	held, err := f.deps.Locks.HeldByOther(context.Background(), f.salon.ID, f.ana.ID, at(10, 0), "session-b")
	require.NoError(t, err)
	assert.False(t, held)
	assert.Contains(t, f.events.types, realtime.EventSlotReleased)
}

// ======================================================
// TRANSITIONS
// ======================================================

func TestTransitionLifecycleUpdatesClientStats(t *testing.T) {
	f := setup(t)
	ap, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	uc := NewTransitionAppointment(f.deps)
	for i, target := range []domain.Status{
		domain.StatusCheckedIn,
		domain.StatusInProgress,
		domain.StatusCompleted,
	} {
		ap, err = uc.Execute(context.Background(), TransitionInput{
			SalonID:       f.salon.ID,
			AppointmentID: ap.ID,
			Target:        target,
		})
		require.NoError(t, err)
		assert.Equal(t, string(target), ap.Status)
		assert.Equal(t, i+2, ap.Version)
	}
	assert.NotNil(t, ap.CompletedAt)

	var client models.Client
	require.NoError(t, f.db.First(&client, ap.ClientID).Error)
	assert.Equal(t, 1, client.CompletedCount)
	assert.NotNil(t, client.LastVisitAt)

	_, err = uc.Execute(context.Background(), TransitionInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Target:        domain.StatusCancelled,
	})
	assert.True(t, httperr.IsInvalidTransition(err), "got %v", err)
}

type failingStats struct {
	domain.Repository
}

func (failingStats) RecordClientOutcome(context.Context, uint, uint, domain.Status, time.Time) error {
	return errors.New("stats table locked")
}

func TestTransitionSurvivesClientStatsFailure(t *testing.T) {
	f := setup(t)
	ap, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	deps := f.deps
	deps.Repo = failingStats{Repository: f.deps.Repo}

	cancelled, err := NewTransitionAppointment(deps).Execute(context.Background(), TransitionInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Target:        domain.StatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)

	var stored models.Appointment
	require.NoError(t, f.db.First(&stored, ap.ID).Error)
	assert.Equal(t, string(domain.StatusCancelled), stored.Status)
	assert.Contains(t, f.audit.actions(), "appointment_cancelled")
}

func TestTransitionRejectsStaleVersion(t *testing.T) {
	f := setup(t)
	ap, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	stale := 5
	_, err = NewTransitionAppointment(f.deps).Execute(context.Background(), TransitionInput{
		SalonID:         f.salon.ID,
		AppointmentID:   ap.ID,
		Target:          domain.StatusCheckedIn,
		ExpectedVersion: &stale,
	})
	assert.True(t, httperr.IsBusiness(err, "version_mismatch"), "got %v", err)
}

func TestCancelFreesTheSlot(t *testing.T) {
	f := setup(t)
	ap, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	actor := uint(7)
	cancelled, err := NewTransitionAppointment(f.deps).Execute(context.Background(), TransitionInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Target:        domain.StatusCancelled,
		Reason:        "client asked",
		ActorID:       &actor,
	})
	require.NoError(t, err)
	assert.Equal(t, "client asked", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, actor, *cancelled.CancelledBy)

	_, err = f.book(t, f.ana.ID, at(10, 0), "5550002")
	assert.NoError(t, err)
}

// ======================================================
// RESCHEDULE
// ======================================================

func TestRescheduleMovesAndChecksConflicts(t *testing.T) {
	f := setup(t)
	ap, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)
	_, err = f.book(t, f.ana.ID, at(12, 0), "5550002")
	require.NoError(t, err)

	uc := NewRescheduleAppointment(f.deps)

	moved, err := uc.Execute(context.Background(), RescheduleInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Start:         at(11, 0),
	})
	require.NoError(t, err)
	assert.True(t, moved.StartTime.Equal(at(11, 0)))
	assert.True(t, moved.EndTime.Equal(at(11, 30)))
	assert.Equal(t, 2, moved.Version)

	// Overlapping itself is not a conflict.
	_, err = uc.Execute(context.Background(), RescheduleInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Start:         at(11, 15),
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), RescheduleInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Start:         at(11, 45),
	})
	assert.True(t, httperr.IsBusiness(err, "time_conflict"), "got %v", err)

	moved, err = uc.Execute(context.Background(), RescheduleInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		StaffID:       f.bruno.ID,
		Start:         at(12, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, f.bruno.ID, moved.StaffID)
	assert.Contains(t, f.events.types, realtime.EventAppointmentRescheduled)
}

func TestRescheduleRejectsFinishedAppointments(t *testing.T) {
	f := setup(t)
	ap, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	_, err = NewTransitionAppointment(f.deps).Execute(context.Background(), TransitionInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Target:        domain.StatusNoShow,
	})
	require.NoError(t, err)

	_, err = NewRescheduleAppointment(f.deps).Execute(context.Background(), RescheduleInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Start:         at(11, 0),
	})
	assert.True(t, httperr.IsBusiness(err, "not_reschedulable"), "got %v", err)
}

// ======================================================
// AVAILABILITY / CALENDAR
// ======================================================

func TestAvailabilitySkipsBookedWindows(t *testing.T) {
	f := setup(t)
	_, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)

	slots, err := NewGetAvailability(f.deps.Repo, f.deps.Schedules).Execute(context.Background(), domain.AvailabilityInput{
		SalonID:   f.salon.ID,
		ServiceID: f.service.ID,
		StaffID:   f.ana.ID,
		Date:      at(0, 0),
	})
	require.NoError(t, err)

	starts := map[string]bool{}
	for _, s := range slots {
		assert.Equal(t, f.ana.ID, s.StaffID)
		starts[s.Start.Format("15:04")] = true
	}
	assert.True(t, starts["09:00"])
	assert.True(t, starts["09:30"])
	assert.False(t, starts["09:45"])
	assert.False(t, starts["10:15"])
	assert.True(t, starts["10:30"])
	assert.True(t, starts["16:30"])
	assert.False(t, starts["16:45"])
}

func TestListAndExportCalendar(t *testing.T) {
	f := setup(t)
	_, err := f.book(t, f.ana.ID, at(10, 0), "5550001")
	require.NoError(t, err)
	_, err = f.book(t, f.bruno.ID, at(9, 0), "5550002")
	require.NoError(t, err)

	day, err := NewListAppointmentsByDate(f.deps.Repo).Execute(context.Background(), f.salon.ID, 0, at(0, 0))
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "Bruno", day[0].StaffName)

	month, err := NewListAppointmentsByMonth(f.deps.Repo).Execute(context.Background(), f.salon.ID, f.ana.ID, 2024, 6)
	require.NoError(t, err)
	require.Len(t, month, 1)

	_, err = NewListAppointmentsByMonth(f.deps.Repo).Execute(context.Background(), f.salon.ID, 0, 2024, 13)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))

	data, name, err := NewExportCalendar(f.deps.Repo).Execute(context.Background(), f.salon.ID, 0, at(0, 0), at(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "appointments_2024-06-03_to_2024-06-03.xlsx", name)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Staff", rows[0][3])
	assert.Equal(t, "Bruno", rows[1][3])
}

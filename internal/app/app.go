// Package app wires stores, side-effect sinks and use cases into one
// container shared by the HTTP server and the CLI commands.
package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	wldomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/waitlist"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	ucWaitlist "github.com/BruksfildServices01/salon-scheduler/internal/usecase/waitlist"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zerolog.Logger

	// ======================================================
	// INFRA
	// ======================================================
	Appointments *infraRepo.AppointmentGormRepository
	Schedules    *infraRepo.ScheduleGormRepository
	Waitlist     *infraRepo.WaitlistGormRepository

	Locks    *lock.Manager
	Hub      *realtime.Hub
	Audit    *audit.Dispatcher
	Notifier *notify.Dispatcher

	// ======================================================
	// USE CASES
	// ======================================================
	CreateAppointment     *ucAppointment.CreateAppointment
	TransitionAppointment *ucAppointment.TransitionAppointment
	RescheduleAppointment *ucAppointment.RescheduleAppointment
	LockSlot              *ucAppointment.LockSlot
	ReleaseSlot           *ucAppointment.ReleaseSlot
	ListByDate            *ucAppointment.ListAppointmentsByDate
	ListByMonth           *ucAppointment.ListAppointmentsByMonth
	Availability          *ucAppointment.GetAvailability
	ExportCalendar        *ucAppointment.ExportCalendar

	CreateWaitlistEntry *ucWaitlist.CreateEntry
	ListWaitlist        *ucWaitlist.ListEntries
	CancelWaitlistEntry *ucWaitlist.CancelEntry
	CheckMatches        *ucWaitlist.CheckMatches
	NotifyMatch         *ucWaitlist.NotifyMatch
	HandleReply         *ucWaitlist.HandleReply

	redis *redis.Client
}

// New builds the container. Slot locks live in redis when REDIS_URL is
// set and in the database otherwise.
func New(cfg *config.Config, db *gorm.DB, logger *zerolog.Logger, clock timezone.Clock) (*App, error) {
	if clock == nil {
		clock = timezone.SystemClock
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Logger: logger,

		Appointments: infraRepo.NewAppointmentGormRepository(db),
		Schedules:    infraRepo.NewScheduleGormRepository(db),
		Waitlist:     infraRepo.NewWaitlistGormRepository(db),

		Hub:   realtime.NewHub(logger),
		Audit: audit.NewDispatcher(audit.New(db), logger),
	}

	store, err := a.lockStore()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Locks = lock.NewManager(store, a.Appointments, cfg.LockTTL(), logger).WithClock(clock)

	sender := notify.NewLogSender(logger)
	a.Notifier = notify.NewDispatcher(
		infraRepo.NewNotificationGormRepository(db),
		map[notify.Channel]notify.Sender{
			notify.ChannelSMS:   sender,
			notify.ChannelEmail: sender,
		},
		logger,
	).WithClock(clock)

	deps := ucAppointment.Deps{
		Repo:      a.Appointments,
		Schedules: a.Schedules,
		Locks:     a.Locks,
		Notifier:  a.Notifier,
		Audit:     a.Audit,
		Events:    a.Hub,
		Clock:     clock,
		Logger:    logger,
	}

	a.CreateAppointment = ucAppointment.NewCreateAppointment(deps)
	a.TransitionAppointment = ucAppointment.NewTransitionAppointment(deps)
	a.RescheduleAppointment = ucAppointment.NewRescheduleAppointment(deps)
	a.LockSlot = ucAppointment.NewLockSlot(deps)
	a.ReleaseSlot = ucAppointment.NewReleaseSlot(deps)
	a.ListByDate = ucAppointment.NewListAppointmentsByDate(a.Appointments)
	a.ListByMonth = ucAppointment.NewListAppointmentsByMonth(a.Appointments)
	a.Availability = ucAppointment.NewGetAvailability(a.Appointments, a.Schedules)
	a.ExportCalendar = ucAppointment.NewExportCalendar(a.Appointments)

	wdeps := ucWaitlist.Deps{
		Repo:         a.Waitlist,
		Appointments: a.Appointments,
		Schedules:    a.Schedules,
		Parser:       wldomain.KeywordParser{},
		Booker:       a.CreateAppointment,
		Notifier:     a.Notifier,
		Audit:        a.Audit,
		Events:       a.Hub,
		Clock:        clock,
		Logger:       logger,
		ScanDays:     cfg.WaitlistScanDays,
		ExpiryDays:   cfg.WaitlistExpiryDays,
		MatchMode:    cfg.WaitlistMatchMode,
	}

	a.CreateWaitlistEntry = ucWaitlist.NewCreateEntry(wdeps)
	a.ListWaitlist = ucWaitlist.NewListEntries(wdeps)
	a.CancelWaitlistEntry = ucWaitlist.NewCancelEntry(wdeps)
	a.CheckMatches = ucWaitlist.NewCheckMatches(wdeps)
	a.NotifyMatch = ucWaitlist.NewNotifyMatch(wdeps)
	a.HandleReply = ucWaitlist.NewHandleReply(wdeps)

	return a, nil
}

func (a *App) lockStore() (lock.Store, error) {
	if a.Config.RedisURL == "" {
		return lock.NewGormStore(a.DB), nil
	}

	opts, err := redis.ParseURL(a.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	a.redis = redis.NewClient(opts)
	if err := a.redis.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a.Logger.Info().Str("addr", opts.Addr).Msg("slot locks backed by redis")
	return lock.NewRedisStore(a.redis), nil
}

// Close drains the audit queue and releases the redis connection.
func (a *App) Close() {
	if a.Audit != nil {
		a.Audit.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

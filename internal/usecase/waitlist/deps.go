package waitlist

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/waitlist"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	apuc "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

const (
	DefaultScanDays   = 14
	DefaultExpiryDays = 30
)

// Match modes for the slot scan. Contain only offers working-hours
// intervals that sit fully inside a preferred time range; intersect
// clips intervals to the ranges and fits a service-length window.
const (
	MatchContain   = "contain"
	MatchIntersect = "intersect"
)

// Booker creates the appointment when a client accepts an offer.
type Booker interface {
	Execute(ctx context.Context, in apuc.CreateAppointmentInput) (*models.Appointment, error)
}

type Deps struct {
	Repo         domain.Repository
	Appointments apdomain.Repository
	Schedules    schedule.Lookup
	Parser       domain.Parser
	Booker       Booker
	Notifier     apuc.Notifier
	Audit        apuc.Auditor
	Events       apuc.Broadcaster
	Clock        timezone.Clock
	Logger       *zerolog.Logger

	ScanDays   int
	ExpiryDays int
	MatchMode  string
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return timezone.SystemClock()
	}
	return d.Clock()
}

func (d Deps) logger() *zerolog.Logger {
	if d.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return d.Logger
}

func (d Deps) dispatch(ev audit.Event) {
	if d.Audit != nil {
		d.Audit.Dispatch(ev)
	}
}

func (d Deps) broadcast(salonID uint, eventType string, payload any) {
	if d.Events != nil {
		d.Events.Broadcast(salonID, eventType, payload)
	}
}

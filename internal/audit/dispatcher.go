package audit

import (
	"sync"

	"github.com/rs/zerolog"
)

type Event struct {
	SalonID  uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Sink interface {
	Log(ev Event) error
}

// Dispatcher writes audit events from a single background worker so that
// request paths never wait on the audit table.
type Dispatcher struct {
	sink   Sink
	logger *zerolog.Logger
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink, logger *zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			d.logger.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

// Dispatch drops the event when the queue is full.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close drains queued events and stops the worker. Dispatch must not be
// called afterwards.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

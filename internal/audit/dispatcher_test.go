package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/dbtest"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSink) Log(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, logging.Nop())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{SalonID: 1, Action: "appointment_created"})
	}
	d.Close()
	d.Close()

	assert.Len(t, sink.events, 10)
}

func TestDispatcherSurvivesSinkErrors(t *testing.T) {
	sink := &recordingSink{fail: true}
	d := NewDispatcher(sink, logging.Nop())

	assert.NotPanics(t, func() {
		d.Dispatch(Event{SalonID: 1, Action: "x"})
		d.Close()
	})
}

func TestLoggerWritesRow(t *testing.T) {
	conn := dbtest.Open(t)
	id := uint(9)

	require.NoError(t, New(conn).Log(Event{
		SalonID:  3,
		Action:   "slot_locked",
		Entity:   "slot_lock",
		EntityID: &id,
		Metadata: map[string]any{"holder": "h1"},
	}))

	var row models.AuditLog
	require.NoError(t, conn.First(&row).Error)
	assert.Equal(t, uint(3), row.SalonID)
	assert.Equal(t, "slot_locked", row.Action)
	assert.JSONEq(t, `{"holder":"h1"}`, row.Metadata)
}

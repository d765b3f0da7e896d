package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type memStore struct {
	rows []*models.Notification
}

func (m *memStore) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = uint(len(m.rows) + 1)
	m.rows = append(m.rows, n)
	return nil
}

func (m *memStore) UpdateNotification(_ context.Context, n *models.Notification) error {
	m.rows[n.ID-1] = n
	return nil
}

func (m *memStore) ListPending(_ context.Context, salonID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.rows {
		if n.Status == models.NotificationPending && (salonID == 0 || n.SalonID == salonID) {
			out = append(out, *n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type flakySender struct {
	fail map[string]bool
	sent []string
}

func (f *flakySender) Send(_ context.Context, _ Channel, recipient, body string) (string, error) {
	if f.fail[recipient] {
		return "", errors.New("carrier rejected")
	}
	f.sent = append(f.sent, body)
	return "msg-" + recipient, nil
}

func TestRender(t *testing.T) {
	got := Render("Hi {{name}}, see you at {{time}}.", map[string]string{"name": "Ana", "time": "14:00"})
	assert.Equal(t, "Hi Ana, see you at 14:00.", got)
	assert.Equal(t, "plain", Render("plain", nil))
}

func TestSendRecordsOutcome(t *testing.T) {
	store := &memStore{}
	sender := &flakySender{fail: map[string]bool{"+2": true}}
	fixed := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	d := NewDispatcher(store, map[Channel]Sender{ChannelSMS: sender}, logging.Nop()).
		WithClock(func() time.Time { return fixed })

	ok := d.Send(context.Background(), Message{SalonID: 1, Channel: ChannelSMS, Recipient: "+1", Text: "Hello {{name}}", Params: map[string]string{"name": "Bia"}})
	assert.True(t, ok.Success)
	assert.Equal(t, "msg-+1", ok.ID)
	assert.Equal(t, []string{"Hello Bia"}, sender.sent)
	assert.Equal(t, models.NotificationSent, store.rows[0].Status)
	assert.Equal(t, fixed, *store.rows[0].SentAt)

	bad := d.Send(context.Background(), Message{SalonID: 1, Channel: ChannelSMS, Recipient: "+2", Text: "x"})
	assert.False(t, bad.Success)
	assert.Equal(t, "carrier rejected", bad.Error)
	assert.Equal(t, models.NotificationFailed, store.rows[1].Status)
	assert.Equal(t, "carrier rejected", store.rows[1].Error)

	noChannel := d.Send(context.Background(), Message{SalonID: 1, Channel: ChannelEmail, Recipient: "a@b.c", Text: "x"})
	assert.False(t, noChannel.Success)
}

func TestProcessPendingContinuesPastFailures(t *testing.T) {
	store := &memStore{}
	sender := &flakySender{fail: map[string]bool{"+2": true}}
	d := NewDispatcher(store, map[Channel]Sender{ChannelSMS: sender}, logging.Nop())
	ctx := context.Background()

	for _, r := range []string{"+1", "+2", "+3"} {
		_, err := d.Enqueue(ctx, Message{SalonID: 1, Channel: ChannelSMS, Recipient: r, Text: "reminder"})
		require.NoError(t, err)
	}
	_, err := d.Enqueue(ctx, Message{SalonID: 2, Channel: ChannelSMS, Recipient: "+9", Text: "other salon"})
	require.NoError(t, err)

	res, err := d.ProcessPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Sent: 2, Failed: 1}, res)
	assert.Equal(t, models.NotificationFailed, store.rows[1].Status)
	assert.Equal(t, 1, store.rows[1].Attempts)
	assert.Equal(t, models.NotificationPending, store.rows[3].Status)

	res, err = d.ProcessPending(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Sent: 1}, res)
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(logging.Nop())
	id, err := s.Send(context.Background(), ChannelSMS, "+1", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.Send(context.Background(), ChannelSMS, "", "hi")
	assert.Error(t, err)
}

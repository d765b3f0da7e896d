// Package notify records and delivers outbound client messages.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Sender is a transport. It returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, channel Channel, recipient, body string) (string, error)
}

type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	UpdateNotification(ctx context.Context, n *models.Notification) error
	ListPending(ctx context.Context, salonID uint, limit int) ([]models.Notification, error)
}

type Message struct {
	SalonID   uint
	Channel   Channel
	Recipient string
	Text      string
	Params    map[string]string
	Reference string
}

type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BatchResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type Dispatcher struct {
	store   Store
	senders map[Channel]Sender
	logger  *zerolog.Logger
	clock   timezone.Clock
}

func NewDispatcher(store Store, senders map[Channel]Sender, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		senders: senders,
		logger:  logger,
		clock:   timezone.SystemClock,
	}
}

func (d *Dispatcher) WithClock(clock timezone.Clock) *Dispatcher {
	d.clock = clock
	return d
}

// Render substitutes {{key}} placeholders.
func Render(text string, params map[string]string) string {
	if len(params) == 0 {
		return text
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Enqueue records the message as pending without sending it.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) (*models.Notification, error) {
	n := &models.Notification{
		SalonID:   msg.SalonID,
		Channel:   string(msg.Channel),
		Recipient: msg.Recipient,
		Body:      Render(msg.Text, msg.Params),
		Params:    datatypes.NewJSONType(msg.Params),
		Status:    models.NotificationPending,
		Reference: msg.Reference,
	}
	if err := d.store.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("record notification: %w", err)
	}
	return n, nil
}

// Send records the message and delivers it right away. Delivery errors
// are reported in the result, not returned.
func (d *Dispatcher) Send(ctx context.Context, msg Message) Result {
	n, err := d.Enqueue(ctx, msg)
	if err != nil {
		return Result{Error: err.Error()}
	}
	return d.deliver(ctx, n)
}

// ProcessPending delivers up to limit pending notifications. A failing
// item is marked failed and the batch carries on.
func (d *Dispatcher) ProcessPending(ctx context.Context, salonID uint, limit int) (BatchResult, error) {
	pending, err := d.store.ListPending(ctx, salonID, limit)
	if err != nil {
		return BatchResult{}, err
	}

	var out BatchResult
	for i := range pending {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		if res := d.deliver(ctx, &pending[i]); res.Success {
			out.Sent++
		} else {
			out.Failed++
		}
	}
	return out, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *models.Notification) Result {
	n.Attempts++

	sender, ok := d.senders[Channel(n.Channel)]
	var (
		providerID string
		sendErr    error
	)
	if !ok {
		sendErr = fmt.Errorf("no sender for channel %q", n.Channel)
	} else {
		providerID, sendErr = sender.Send(ctx, Channel(n.Channel), n.Recipient, n.Body)
	}

	if sendErr != nil {
		n.Status = models.NotificationFailed
		n.Error = sendErr.Error()
	} else {
		now := d.clock()
		n.Status = models.NotificationSent
		n.Error = ""
		n.ProviderID = providerID
		n.SentAt = &now
	}
	metrics.IncNotification(n.Channel, n.Status)

	if err := d.store.UpdateNotification(ctx, n); err != nil {
		d.logger.Error().Err(err).Uint("notification_id", n.ID).Msg("notification status not saved")
	}

	if sendErr != nil {
		d.logger.Warn().
			Err(sendErr).
			Uint("notification_id", n.ID).
			Str("channel", n.Channel).
			Msg("notification failed")
		return Result{Error: sendErr.Error()}
	}
	return Result{Success: true, ID: providerID}
}

// LogSender writes messages to the log instead of a provider.
type LogSender struct {
	logger *zerolog.Logger
}

func NewLogSender(logger *zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, channel Channel, recipient, body string) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("empty recipient")
	}
	id := uuid.NewString()
	s.logger.Info().
		Str("provider_id", id).
		Str("channel", string(channel)).
		Str("recipient", recipient).
		Int("length", len(body)).
		Msg("message sent")
	return id, nil
}

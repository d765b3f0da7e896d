// Package realtime pushes salon events to connected websocket clients.
// Every client belongs to exactly one salon and only sees its events.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentUpdated     = "appointment.updated"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventSlotLocked             = "slot.locked"
	EventSlotReleased           = "slot.released"
	EventWaitlistMatched        = "waitlist.matched"
	EventWaitlistBooked         = "waitlist.booked"
)

type Event struct {
	Type      string    `json:"type"`
	SalonID   uint      `json:"salon_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

type Client struct {
	ID      string
	SalonID uint
	Send    chan []byte
}

type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
	logger  *zerolog.Logger
}

func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.SalonID] == nil {
		h.clients[client.SalonID] = make(map[*Client]struct{})
	}
	h.clients[client.SalonID][client] = struct{}{}
}

// Unregister removes the client and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.SalonID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.SalonID)
	}
	close(client.Send)
}

// Broadcast never blocks: a client with a full buffer misses the event.
func (h *Hub) Broadcast(salonID uint, eventType string, payload any) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		SalonID:   salonID,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("event", eventType).Msg("realtime event not encoded")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[salonID] {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount(salonID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[salonID])
}

// ---------------------------------------------------------------------------
// Websocket transport
// ---------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Serve upgrades the request and streams the salon's events until the
// peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, salonID uint) error {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		ID:      uuid.NewString(),
		SalonID: salonID,
		Send:    make(chan []byte, 256),
	}
	h.Register(client)

	go h.writePump(client, ws)
	go h.readPump(client, ws)
	return nil
}

// readPump only watches for the peer closing; inbound messages are ignored.
func (h *Hub) readPump(client *Client, ws *websocket.Conn) {
	defer func() {
		h.Unregister(client)
		_ = ws.Close()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *Client, ws *websocket.Conn) {
	defer ws.Close()

	for message := range client.Send {
		if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream upgrades to a websocket fed with the caller's salon events.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	if err := h.hub.Serve(c.Writer, c.Request, salonID(c)); err != nil {
		// the upgrader has already written the failure response
		_ = c.Error(err)
		if !c.Writer.Written() {
			httperr.BadRequest(c, "invalid_request", "Invalid request.")
		}
	}
}

package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

type OutboxProcessor interface {
	ProcessPending(ctx context.Context, salonID uint, limit int) (notify.BatchResult, error)
}

type NotificationHandler struct {
	outbox OutboxProcessor
}

func NewNotificationHandler(outbox OutboxProcessor) *NotificationHandler {
	return &NotificationHandler{outbox: outbox}
}

// Process delivers the salon's pending notifications.
func (h *NotificationHandler) Process(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 1000 {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	res, err := h.outbox.ProcessPending(c.Request.Context(), salonID(c), limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

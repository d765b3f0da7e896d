package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	ucWaitlist "github.com/BruksfildServices01/salon-scheduler/internal/usecase/waitlist"
)

// SMSHandler receives inbound SMS from the provider webhook.
type SMSHandler struct {
	reply *ucWaitlist.HandleReply
}

func NewSMSHandler(reply *ucWaitlist.HandleReply) *SMSHandler {
	return &SMSHandler{reply: reply}
}

// Form fields follow the usual provider webhook names; JSON works too.
type InboundSMSRequest struct {
	To   string `json:"to" form:"To" binding:"required"`
	From string `json:"from" form:"From" binding:"required"`
	Body string `json:"body" form:"Body"`
}

func (h *SMSHandler) Inbound(c *gin.Context) {
	var req InboundSMSRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	reply, err := h.reply.Execute(c.Request.Context(), ucWaitlist.InboundSMS{
		To:   req.To,
		From: req.From,
		Body: req.Body,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

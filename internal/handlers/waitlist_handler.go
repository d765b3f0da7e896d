package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucWaitlist "github.com/BruksfildServices01/salon-scheduler/internal/usecase/waitlist"
)

type WaitlistHandler struct {
	create *ucWaitlist.CreateEntry
	list   *ucWaitlist.ListEntries
	cancel *ucWaitlist.CancelEntry
	check  *ucWaitlist.CheckMatches
	notify *ucWaitlist.NotifyMatch
}

func NewWaitlistHandler(
	create *ucWaitlist.CreateEntry,
	list *ucWaitlist.ListEntries,
	cancel *ucWaitlist.CancelEntry,
	check *ucWaitlist.CheckMatches,
	notify *ucWaitlist.NotifyMatch,
) *WaitlistHandler {
	return &WaitlistHandler{
		create: create,
		list:   list,
		cancel: cancel,
		check:  check,
		notify: notify,
	}
}

type CreateWaitlistRequest struct {
	ServiceID   uint                           `json:"service_id" binding:"required"`
	ClientID    uint                           `json:"client_id"`
	ClientName  string                         `json:"client_name"`
	ClientPhone string                         `json:"client_phone"`
	ClientEmail string                         `json:"client_email" binding:"omitempty,email"`
	Description string                         `json:"availability_description"`
	Preference  *models.AvailabilityPreference `json:"preference"`
	ExpiresAt   *time.Time                     `json:"expires_at"`
}

type NotifyWaitlistRequest struct {
	StaffID uint      `json:"staff_id" binding:"required"`
	Start   time.Time `json:"start" binding:"required"`
}

func (h *WaitlistHandler) Create(c *gin.Context) {
	var req CreateWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	entry, err := h.create.Execute(c.Request.Context(), ucWaitlist.CreateEntryInput{
		SalonID:     salonID(c),
		ServiceID:   req.ServiceID,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Description: req.Description,
		Preference:  req.Preference,
		ExpiresAt:   req.ExpiresAt,
		ActorID:     actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *WaitlistHandler) List(c *gin.Context) {
	entries, err := h.list.Execute(c.Request.Context(), salonID(c), c.Query("status"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, entries)
}

func (h *WaitlistHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	entry, err := h.cancel.Execute(c.Request.Context(), salonID(c), id, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *WaitlistHandler) CheckMatches(c *gin.Context) {
	matches, err := h.check.Execute(c.Request.Context(), salonID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, matches)
}

func (h *WaitlistHandler) Notify(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	var req NotifyWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	entry, err := h.notify.Execute(c.Request.Context(), ucWaitlist.NotifyInput{
		SalonID: salonID(c),
		EntryID: id,
		StaffID: req.StaffID,
		Start:   req.Start,
		ActorID: actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

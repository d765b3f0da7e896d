package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo       domain.Repository
	create     *ucAppointment.CreateAppointment
	transition *ucAppointment.TransitionAppointment
	reschedule *ucAppointment.RescheduleAppointment
	lockSlot   *ucAppointment.LockSlot
	release    *ucAppointment.ReleaseSlot
}

func NewAppointmentHandler(
	repo domain.Repository,
	create *ucAppointment.CreateAppointment,
	transition *ucAppointment.TransitionAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	lockSlot *ucAppointment.LockSlot,
	release *ucAppointment.ReleaseSlot,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		create:     create,
		transition: transition,
		reschedule: reschedule,
		lockSlot:   lockSlot,
		release:    release,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	StaffID     uint      `json:"staff_id" binding:"required"`
	ServiceID   uint      `json:"service_id" binding:"required"`
	ClientID    uint      `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ClientEmail string    `json:"client_email" binding:"omitempty,email"`
	Start       time.Time `json:"start"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes"`
	LockID      string    `json:"lock_id"`
	Holder      string    `json:"holder"`
}

type RescheduleRequest struct {
	StaffID         uint      `json:"staff_id"`
	Start           time.Time `json:"start"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	ExpectedVersion *int      `json:"expected_version"`
	Holder          string    `json:"holder"`
}

type TransitionRequest struct {
	ExpectedVersion *int   `json:"expected_version"`
	Reason          string `json:"reason"`
}

type LockRequest struct {
	StaffID   uint      `json:"staff_id" binding:"required"`
	ServiceID uint      `json:"service_id" binding:"required"`
	Start     time.Time `json:"start"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Holder    string    `json:"holder"`
}

func hasStart(start time.Time, date, clock string) bool {
	return !start.IsZero() || (date != "" && clock != "")
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || !hasStart(req.Start, req.Date, req.Time) {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		SalonID:     salonID(c),
		StaffID:     req.StaffID,
		ServiceID:   req.ServiceID,
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Start:       req.Start,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		LockID:      req.LockID,
		Holder:      holderOf(c, req.Holder),
		ActorID:     actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil || !hasStart(req.Start, req.Date, req.Time) {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		SalonID:         salonID(c),
		AppointmentID:   id,
		StaffID:         req.StaffID,
		Start:           req.Start,
		Date:            req.Date,
		Time:            req.Time,
		ExpectedVersion: req.ExpectedVersion,
		Holder:          holderOf(c, req.Holder),
		ActorID:         actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

// Transition builds the handler for one target status. The body is
// optional.
func (h *AppointmentHandler) Transition(target domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			httperr.BadRequest(c, "invalid_request", "Invalid request.")
			return
		}

		var req TransitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				httperr.BadRequest(c, "invalid_request", "Invalid request.")
				return
			}
		}

		ap, err := h.transition.Execute(c.Request.Context(), ucAppointment.TransitionInput{
			SalonID:         salonID(c),
			AppointmentID:   id,
			Target:          target,
			ExpectedVersion: req.ExpectedVersion,
			Reason:          req.Reason,
			ActorID:         actorID(c),
		})
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, ap)
	}
}

// ======================================================
// SLOT LOCKS
// ======================================================

func (h *AppointmentHandler) Lock(c *gin.Context) {
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil || !hasStart(req.Start, req.Date, req.Time) {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	lk, err := h.lockSlot.Execute(c.Request.Context(), ucAppointment.LockSlotInput{
		SalonID:   salonID(c),
		StaffID:   req.StaffID,
		ServiceID: req.ServiceID,
		Start:     req.Start,
		Date:      req.Date,
		Time:      req.Time,
		Holder:    holderOf(c, req.Holder),
		ActorID:   actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, lk)
}

func (h *AppointmentHandler) Unlock(c *gin.Context) {
	lockID := c.Param("id")
	if lockID == "" {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	holder := holderOf(c, c.Query("holder"))
	if err := h.release.Execute(c.Request.Context(), salonID(c), lockID, holder); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	schedules schedule.Repository
	staff     apdomain.Repository
	audit     ucAppointment.Auditor
}

func NewWorkingHoursHandler(
	schedules schedule.Repository,
	staff apdomain.Repository,
	auditor ucAppointment.Auditor,
) *WorkingHoursHandler {
	return &WorkingHoursHandler{schedules: schedules, staff: staff, audit: auditor}
}

type WorkingDayConfig struct {
	Weekday int                `json:"weekday" binding:"min=0,max=6"`
	Working bool               `json:"working"`
	Slots   []models.TimeRange `json:"slots"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required"`
}

type CreateOverrideRequest struct {
	Date  string             `json:"date" binding:"required"`
	Type  string             `json:"type" binding:"required"`
	Slots []models.TimeRange `json:"slots"`
	Note  string             `json:"note"`
}

// staffFromPath resolves :id inside the caller's salon.
func (h *WorkingHoursHandler) staffFromPath(c *gin.Context) (*models.Staff, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return nil, false
	}
	staff, err := h.staff.GetStaff(c.Request.Context(), salonID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return staff, true
}

// ======================================================
// WEEKLY HOURS
// ======================================================

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	staff, ok := h.staffFromPath(c)
	if !ok {
		return
	}

	hours, err := h.schedules.ListWorkingHours(c.Request.Context(), staff.SalonID, staff.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	staff, ok := h.staffFromPath(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	week := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		slots := d.Slots
		if !d.Working {
			slots = []models.TimeRange{}
		}
		week = append(week, models.WorkingHours{
			Weekday: d.Weekday,
			Working: d.Working,
			Slots:   datatypes.NewJSONType(slots),
		})
	}

	if err := schedule.ValidateWeek(week); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.schedules.ReplaceWorkingHours(c.Request.Context(), staff.SalonID, staff.ID, week); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  staff.SalonID,
		UserID:   actorID(c),
		Action:   "working_hours_updated",
		Entity:   "staff",
		EntityID: &staff.ID,
	})

	c.JSON(http.StatusOK, week)
}

// ======================================================
// OVERRIDES
// ======================================================

func (h *WorkingHoursHandler) ListOverrides(c *gin.Context) {
	staff, ok := h.staffFromPath(c)
	if !ok {
		return
	}

	overrides, err := h.schedules.ListOverrides(
		c.Request.Context(), staff.SalonID, staff.ID,
		c.Query("from"), c.Query("to"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, overrides)
}

func (h *WorkingHoursHandler) CreateOverride(c *gin.Context) {
	staff, ok := h.staffFromPath(c)
	if !ok {
		return
	}

	var req CreateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	slots := req.Slots
	if req.Type == models.OverrideOff || slots == nil {
		slots = []models.TimeRange{}
	}

	ov := &models.ScheduleOverride{
		SalonID: staff.SalonID,
		StaffID: staff.ID,
		Date:    req.Date,
		Type:    req.Type,
		Slots:   datatypes.NewJSONType(slots),
		Note:    req.Note,
	}
	if err := schedule.ValidateOverride(ov); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.schedules.CreateOverride(c.Request.Context(), ov); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  staff.SalonID,
		UserID:   actorID(c),
		Action:   "override_created",
		Entity:   "schedule_override",
		EntityID: &ov.ID,
		Metadata: map[string]any{"staff_id": staff.ID, "date": ov.Date, "type": ov.Type},
	})

	c.JSON(http.StatusCreated, ov)
}

func (h *WorkingHoursHandler) DeleteOverride(c *gin.Context) {
	staff, ok := h.staffFromPath(c)
	if !ok {
		return
	}
	overrideID, ok := uintParam(c, "overrideID")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	if err := h.schedules.DeleteOverride(c.Request.Context(), staff.SalonID, staff.ID, overrideID); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

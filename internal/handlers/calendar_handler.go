package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CalendarHandler struct {
	byDate       *ucAppointment.ListAppointmentsByDate
	byMonth      *ucAppointment.ListAppointmentsByMonth
	availability *ucAppointment.GetAvailability
	export       *ucAppointment.ExportCalendar
}

func NewCalendarHandler(
	byDate *ucAppointment.ListAppointmentsByDate,
	byMonth *ucAppointment.ListAppointmentsByMonth,
	availability *ucAppointment.GetAvailability,
	export *ucAppointment.ExportCalendar,
) *CalendarHandler {
	return &CalendarHandler{
		byDate:       byDate,
		byMonth:      byMonth,
		availability: availability,
		export:       export,
	}
}

// ======================================================
// DAY
// ======================================================

func (h *CalendarHandler) Day(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}
	staffID, ok := uintQuery(c, "staff_id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	entries, err := h.byDate.Execute(c.Request.Context(), salonID(c), staffID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, entries)
}

// ======================================================
// MONTH
// ======================================================

func (h *CalendarHandler) Month(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}
	staffID, ok := uintQuery(c, "staff_id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	entries, err := h.byMonth.Execute(c.Request.Context(), salonID(c), staffID, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": entries,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *CalendarHandler) Availability(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}
	serviceID, ok := uintQuery(c, "service_id")
	if !ok || serviceID == 0 {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}
	staffID, ok := uintQuery(c, "staff_id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		SalonID:   salonID(c),
		ServiceID: serviceID,
		StaffID:   staffID,
		Date:      date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// EXPORT
// ======================================================

func (h *CalendarHandler) Export(c *gin.Context) {
	from, ok := dateQuery(c, "from")
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}
	staffID, ok := uintQuery(c, "staff_id")
	if !ok {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	data, name, err := h.export.Execute(c.Request.Context(), salonID(c), staffID, from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

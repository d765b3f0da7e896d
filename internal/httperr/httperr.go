package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Status maps an error to the HTTP status it surfaces as.
func Status(err error) int {
	var it InvalidTransitionError
	if errors.As(err, &it) {
		return http.StatusBadRequest
	}

	var be BusinessError
	if errors.As(err, &be) {
		switch be.Kind {
		case KindNotFound:
			return http.StatusNotFound
		case KindConflict:
			return http.StatusConflict
		case KindForbidden:
			return http.StatusForbidden
		default:
			return http.StatusBadRequest
		}
	}

	if IsUniqueViolation(err) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Respond writes err using the shared error body. Internal errors never
// leak their text.
func Respond(c *gin.Context, err error) {
	status := Status(err)

	var it InvalidTransitionError
	if errors.As(err, &it) {
		Write(c, status, "invalid_transition", it.Error())
		return
	}

	var be BusinessError
	if errors.As(err, &be) {
		Write(c, status, be.Code, messages[be.Code])
		return
	}

	if status == http.StatusConflict {
		Write(c, status, "duplicate", "Resource already exists.")
		return
	}

	_ = c.Error(err)
	Internal(c, "internal_error", "Unexpected error.")
}

var messages = map[string]string{
	"invalid_request":         "Invalid request.",
	"invalid_date":            "Invalid date.",
	"invalid_date_or_time":    "Invalid date or time.",
	"invalid_time_range":      "Invalid time range.",
	"too_soon":                "Requested time is too soon.",
	"in_the_past":             "Requested time is in the past.",
	"outside_working_hours":   "Outside working hours.",
	"staff_not_eligible":      "Staff member cannot perform this service.",
	"time_conflict":           "Time slot conflicts with an existing appointment.",
	"slot_booked":             "Time slot is already booked.",
	"slot_locked":             "Time slot is locked by another booking.",
	"slot_taken":              "Time slot is no longer available.",
	"version_mismatch":        "Appointment was modified by someone else.",
	"appointment_not_found":   "Appointment not found.",
	"service_not_found":       "Service not found.",
	"staff_not_found":         "Staff member not found.",
	"client_not_found":        "Client not found.",
	"salon_not_found":         "Salon not found.",
	"lock_not_found":          "Lock not found.",
	"waitlist_not_found":      "Waitlist entry not found.",
	"override_not_found":      "Schedule override not found.",
	"entry_not_active":        "Waitlist entry is not active.",
	"not_reschedulable":       "Appointment can no longer be rescheduled.",
	"missing_holder":          "Lock holder is required.",
	"missing_client":          "Client name and phone are required.",
	"invalid_working_hours":   "Invalid working hours.",
	"invalid_override":        "Invalid schedule override.",
	"invalid_status":          "Invalid status.",
	"invalid_webhook_token":   "Invalid webhook token.",
	"duplicate_override_date": "An override already exists for this date.",
	"missing_availability":    "Availability description is required.",
	"invalid_expiry":          "Expiry must be in the future.",
	"waitlist_closed":         "Waitlist entry is closed.",
	"invalid_year":            "Invalid year.",
	"invalid_month":           "Invalid month.",
	"invalid_date_range":      "Invalid date range.",
	"date_range_too_large":    "Date range is too large.",
	"invalid_timezone":        "Invalid timezone.",
	"invalid_slot_duration":   "Invalid slot duration.",
	"invalid_min_advance":     "Minimum advance must be zero or positive.",
	"invalid_phone":           "Invalid phone number.",
	"invalid_duration":        "Invalid service duration.",
	"invalid_price":           "Invalid price.",
}

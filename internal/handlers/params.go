package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
)

func salonID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextSalonID).(uint)
}

// actorID is the authenticated user, nil for webhook callers.
func actorID(c *gin.Context) *uint {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// uintQuery returns 0 when the parameter is absent.
func uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// dateQuery parses a YYYY-MM-DD calendar date. Use cases read it in the
// salon's timezone.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	d, err := time.Parse(schedule.DateLayout, c.Query(name))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func holderOf(c *gin.Context, holder string) string {
	if holder != "" {
		return holder
	}
	if id := actorID(c); id != nil {
		return "user:" + strconv.FormatUint(uint64(*id), 10)
	}
	return ""
}

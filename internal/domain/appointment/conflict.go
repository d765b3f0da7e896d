package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Overlaps is the half-open overlap test. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasConflict checks a candidate window against appointments already
// loaded for one staff member. The store-side twin lives in the
// repository and uses the same predicate.
func HasConflict(existing []models.Appointment, start, end time.Time, excludeID uint) bool {
	for _, ap := range existing {
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if !BlocksSlot(Status(ap.Status)) {
			continue
		}
		if Overlaps(ap.StartTime, ap.EndTime, start, end) {
			return true
		}
	}
	return false
}

package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the target status. On success the version is
// bumped and the matching timestamp set; ap is untouched on failure.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	ap.Version++
	ap.UpdatedAt = now

	switch to {
	case StatusCheckedIn:
		ap.CheckedInAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, reason string, actorID *uint, now time.Time) error {
	if err := Transition(ap, StatusCancelled, now); err != nil {
		return err
	}
	ap.CancelReason = reason
	ap.CancelledBy = actorID
	return nil
}

// Move changes the appointment window, keeping its length.
func Move(ap *models.Appointment, start time.Time, now time.Time) {
	length := ap.EndTime.Sub(ap.StartTime)
	ap.StartTime = start
	ap.EndTime = start.Add(length)
	ap.Version++
	ap.UpdatedAt = now
}

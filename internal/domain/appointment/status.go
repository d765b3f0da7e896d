package appointment

import "github.com/BruksfildServices01/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPendingDeposit Status = "pending_deposit"
	StatusConfirmed      Status = "confirmed"
	StatusCheckedIn      Status = "checked_in"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusNoShow         Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusPendingDeposit: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:      {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress:     {StatusCompleted, StatusCancelled},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusNoShow:         {},
}

// ===============================
// Validations
// ===============================

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func AllowedTargets(from Status) []Status {
	return transitions[from]
}

func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrInvalidTransition(string(from), string(to))
}

func IsTerminal(s Status) bool {
	return s.Valid() && len(transitions[s]) == 0
}

// BlocksSlot reports whether an appointment in this status occupies the
// staff member's calendar.
func BlocksSlot(s Status) bool {
	return s != StatusCancelled && s != StatusNoShow
}

// NonBlockingStatuses is the store-side form of BlocksSlot.
func NonBlockingStatuses() []string {
	return []string{string(StatusCancelled), string(StatusNoShow)}
}

// InitialStatus is the status of a freshly booked appointment.
func InitialStatus() Status {
	return StatusConfirmed
}

// Reschedulable reports whether the appointment may still be moved.
func Reschedulable(s Status) bool {
	return s == StatusPendingDeposit || s == StatusConfirmed
}

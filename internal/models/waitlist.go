package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	WaitlistActive    = "active"
	WaitlistNotified  = "notified"
	WaitlistBooked    = "booked"
	WaitlistExpired   = "expired"
	WaitlistCancelled = "cancelled"
)

// AvailabilityPreference is the structured form of a client's free-text
// availability. Weekdays use 0 for Monday.
type AvailabilityPreference struct {
	PreferredStaffIDs   []uint      `json:"preferred_staff_ids,omitempty"`
	PreferredDays       []int       `json:"preferred_days,omitempty"`
	PreferredTimeRanges []TimeRange `json:"preferred_time_ranges,omitempty"`
	Urgent              bool        `json:"urgent"`
	Flexible            bool        `json:"flexible"`
	EarliestDate        string      `json:"earliest_date,omitempty"`
	LatestDate          string      `json:"latest_date,omitempty"`
}

type OfferedSlot struct {
	StaffID   uint      `json:"staff_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	OfferedAt time.Time `json:"offered_at"`
}

type WaitlistEntry struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index:idx_waitlist_salon_status,priority:1;not null" json:"salon_id"`

	ClientID  uint    `gorm:"index;not null" json:"client_id"`
	Client    Client  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`
	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	AvailabilityDescription string                                     `gorm:"type:text" json:"availability_description"`
	Preference              datatypes.JSONType[AvailabilityPreference] `json:"preference"`

	Status       string                            `gorm:"size:20;index:idx_waitlist_salon_status,priority:2;not null" json:"status"`
	OfferedSlots datatypes.JSONType[[]OfferedSlot] `json:"offered_slots"`

	AppointmentID *uint      `json:"appointment_id"`
	NotifiedAt    *time.Time `json:"notified_at"`
	ExpiresAt     time.Time  `gorm:"index" json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastOffer returns the most recent offered slot.
func (w WaitlistEntry) LastOffer() (OfferedSlot, bool) {
	offers := w.OfferedSlots.Data()
	if len(offers) == 0 {
		return OfferedSlot{}, false
	}
	return offers[len(offers)-1], true
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index;not null" json:"salon_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`

	DurationMinutes int `gorm:"not null" json:"duration_minutes"`
	BufferMinutes   int `json:"buffer_minutes"`

	PriceCents     int64 `json:"price_cents"`
	DepositCents   int64 `json:"deposit_cents"`
	DepositPercent int   `json:"deposit_percent"`

	// Empty means any active staff member may perform the service.
	EligibleStaffIDs datatypes.JSONType[[]uint] `json:"eligible_staff_ids"`

	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Length is the time a booking of this service blocks on the calendar.
func (s Service) Length() time.Duration {
	return time.Duration(s.DurationMinutes+s.BufferMinutes) * time.Minute
}

func (s Service) EligibleStaff() []uint {
	return s.EligibleStaffIDs.Data()
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// TimeRange is a time-of-day window, "HH:MM" on both ends.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours holds one weekday of a staff member's week.
// Weekday 0 is Monday.
type WorkingHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index;not null" json:"salon_id"`
	StaffID uint `gorm:"uniqueIndex:idx_working_hours_staff_weekday;not null" json:"staff_id"`

	Weekday int  `gorm:"uniqueIndex:idx_working_hours_staff_weekday" json:"weekday"`
	Working bool `json:"working"`

	Slots datatypes.JSONType[[]TimeRange] `json:"slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

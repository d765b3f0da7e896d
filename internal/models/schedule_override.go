package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OverrideOff    = "off"
	OverrideCustom = "custom"
)

type ScheduleOverride struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index;not null" json:"salon_id"`
	StaffID uint `gorm:"uniqueIndex:idx_override_staff_date;not null" json:"staff_id"`

	// Date is a calendar day, "YYYY-MM-DD", in the salon's timezone.
	Date string `gorm:"size:10;uniqueIndex:idx_override_staff_date;not null" json:"date"`
	Type string `gorm:"size:10;not null" json:"type"`

	Slots datatypes.JSONType[[]TimeRange] `json:"slots"`
	Note  string                          `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

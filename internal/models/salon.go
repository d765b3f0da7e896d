package models

import "time"

// Salon is the tenant. Every other record carries its ID.
type Salon struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone            string `gorm:"size:64;not null" json:"timezone"`
	SlotDurationMinutes int    `gorm:"not null" json:"slot_duration_minutes"`
	MinAdvanceMinutes   int    `json:"min_advance_minutes"`

	// SMSNumber routes inbound SMS replies to the tenant.
	SMSNumber string `gorm:"size:20;index" json:"sms_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

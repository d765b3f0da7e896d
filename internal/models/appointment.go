package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint `gorm:"index:idx_appointment_staff_start,priority:1;not null" json:"salon_id"`

	StaffID uint  `gorm:"index:idx_appointment_staff_start,priority:2;not null" json:"staff_id"`
	Staff   Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff"`

	ClientID uint   `gorm:"index;not null" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime time.Time `gorm:"index:idx_appointment_staff_start,priority:3;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null" json:"status"`

	// Snapshot taken at booking time.
	ServicePriceCents int64 `json:"service_price_cents"`
	DepositCents      int64 `json:"deposit_cents"`
	DepositPercent    int   `json:"deposit_percent"`

	Version int `gorm:"not null" json:"version"`

	Notes             string     `gorm:"size:255" json:"notes"`
	ClientConfirmedAt *time.Time `json:"client_confirmed_at"`

	CancelReason string     `gorm:"size:255" json:"cancel_reason"`
	CancelledBy  *uint      `json:"cancelled_by"`
	CancelledAt  *time.Time `json:"cancelled_at"`

	CheckedInAt *time.Time `json:"checked_in_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

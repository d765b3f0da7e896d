package models

import "time"

// Client has no login and belongs to a single salon. Phone is stored
// normalized and is unique per salon.
type Client struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index;uniqueIndex:idx_client_salon_phone;not null" json:"salon_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex:idx_client_salon_phone" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	SMSOptOut bool `json:"sms_opt_out"`

	CompletedCount int        `json:"completed_count"`
	CancelledCount int        `json:"cancelled_count"`
	NoShowCount    int        `json:"no_show_count"`
	LastVisitAt    *time.Time `json:"last_visit_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

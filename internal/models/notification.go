package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

type Notification struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index;not null" json:"salon_id"`

	Channel   string `gorm:"size:10;not null" json:"channel"`
	Recipient string `gorm:"size:100;not null" json:"recipient"`
	Body      string `gorm:"type:text" json:"body"`

	Params datatypes.JSONType[map[string]string] `json:"params"`

	Status     string `gorm:"size:10;index;not null" json:"status"`
	Error      string `gorm:"type:text" json:"error"`
	ProviderID string `gorm:"size:100" json:"provider_id"`
	Attempts   int    `json:"attempts"`

	// Reference ties the message to what triggered it, e.g. "appointment:12".
	Reference string `gorm:"size:100" json:"reference"`

	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

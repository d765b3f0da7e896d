package models

import "time"

type Staff struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index;not null" json:"salon_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	DisplayName string `gorm:"size:100" json:"display_name"`
	Email       string `gorm:"size:100" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	Role        string `gorm:"size:20" json:"role"`
	Active      bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label is the name shown to clients and used to order slots.
func (s Staff) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

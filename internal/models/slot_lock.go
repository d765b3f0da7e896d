package models

import "time"

type SlotLock struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	SalonID   uint      `gorm:"uniqueIndex:idx_slot_lock_slot,priority:1;not null" json:"salon_id"`
	StaffID   uint      `gorm:"uniqueIndex:idx_slot_lock_slot,priority:2;not null" json:"staff_id"`
	StartTime time.Time `gorm:"uniqueIndex:idx_slot_lock_slot,priority:3;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Holder    string    `gorm:"size:100;not null" json:"holder"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (l SlotLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

package dto

import "time"

type CalendarEntry struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Version     int       `json:"version"`
	StaffID     uint      `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	ClientID    uint      `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ServiceID   uint      `json:"service_id"`
	ServiceName string    `json:"service_name"`
	PriceCents  int64     `json:"price_cents"`
	Confirmed   bool      `json:"confirmed"`
	Notes       string    `json:"notes"`
}

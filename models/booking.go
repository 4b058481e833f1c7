package models

import (
	"time"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"

	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	TurfID          string    `db:"turf_id" json:"turf_id"`
	BookingDate     string    `db:"booking_date" json:"booking_date"` // "YYYY-MM-DD"
	StartTime       string    `db:"start_time" json:"start_time"`     // "HH:MM"
	EndTime         string    `db:"end_time" json:"end_time"`         // "HH:MM"
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	TotalAmount     int       `db:"total_amount" json:"total_amount"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"` // pending, paid, failed, refunded
	BookingStatus   string    `db:"booking_status" json:"booking_status"` // confirmed, cancelled, completed
	PaymentRef      string    `db:"payment_ref" json:"payment_ref,omitempty"`
	Created         time.Time `json:"created"`
	Updated         time.Time `json:"updated"`
}

// Slot is an ephemeral (start, duration) candidate evaluated against the
// pricing bands and confirmed bookings of one turf/date. Never persisted.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Price     int    `json:"price"`
	Available bool   `json:"available"`
}

package models

import (
	"time"
)

type Turf struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Location    string    `db:"location" json:"location"`
	Description string    `db:"description" json:"description"`
	OpeningTime string    `db:"opening_time" json:"opening_time"` // "HH:MM"
	ClosingTime string    `db:"closing_time" json:"closing_time"` // "HH:MM"
	Active      bool      `db:"active" json:"active"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// PricingSlot is an hourly price band over a half-open [start, end)
// time-of-day interval. Bands for one turf must not overlap.
type PricingSlot struct {
	ID           string `db:"id" json:"id"`
	TurfID       string `db:"turf_id" json:"turf_id"`
	StartTime    string `db:"start_time" json:"start_time"` // "HH:MM"
	EndTime      string `db:"end_time" json:"end_time"`     // "HH:MM"
	PricePerHour int    `db:"price_per_hour" json:"price_per_hour"`
}

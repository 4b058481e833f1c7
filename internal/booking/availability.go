package booking

import (
	"time"

	"turf-booking/internal/status"
	"turf-booking/models"
)

// Window is a half-open [Start, End) time-of-day interval on one date.
type Window struct {
	Start Clock
	End   Clock
}

// Overlaps reports whether two half-open windows share an instant.
func Overlaps(a, b Window) bool {
	return a.Start < b.End && a.End > b.Start
}

// ConfirmedWindows extracts the intervals of confirmed bookings. Cancelled
// and completed bookings never block a slot.
func ConfirmedWindows(bookings []models.Booking) ([]Window, error) {
	var ws []Window
	for _, b := range bookings {
		if b.BookingStatus != models.BookingConfirmed {
			continue
		}
		start, err := ParseClock(b.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(b.EndTime)
		if err != nil {
			return nil, err
		}
		ws = append(ws, Window{Start: start, End: end})
	}
	return ws, nil
}

// IsAvailable decides whether a (start, duration) candidate on the given
// date may be offered. A candidate is available iff it fits before closing,
// its start instant is strictly in the future, and it overlaps no confirmed
// booking. Only the start instant is checked against now: a slot starting
// in one minute is bookable, one started a minute ago is not.
func IsAvailable(date string, start Clock, durationMinutes int, closing Clock, booked []Window, now time.Time) bool {
	end := start + Clock(durationMinutes)
	if end > closing {
		return false
	}

	startInstant, err := start.Instant(date)
	if err != nil || !startInstant.After(now) {
		return false
	}

	candidate := Window{Start: start, End: end}
	for _, w := range booked {
		if Overlaps(candidate, w) {
			return false
		}
	}
	return true
}

// ValidateWindow rejects malformed admission windows before any store
// access: start must precede end, both must sit on the Granularity step,
// and the window must fit inside [opening, closing).
func ValidateWindow(start, end, opening, closing Clock) error {
	if start >= end || start%Granularity != 0 || end%Granularity != 0 {
		return status.ErrInvalidWindow
	}
	if start < opening || end > closing {
		return status.ErrInvalidWindow
	}
	return nil
}

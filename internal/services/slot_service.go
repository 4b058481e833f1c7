package services

import (
	"fmt"
	"time"

	"turf-booking/internal/booking"
	"turf-booking/internal/status"
	"turf-booking/models"
	"turf-booking/monitoring"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// SlotService renders the availability+price matrix for a turf and date.
// The result is advisory: the authoritative overlap check happens again at
// admission time.
type SlotService struct {
	app     core.App
	pricing *PricingService
	monitor *monitoring.Monitor
}

func NewSlotService(app core.App, pricing *PricingService, monitor *monitoring.Monitor) *SlotService {
	return &SlotService{
		app:     app,
		pricing: pricing,
		monitor: monitor,
	}
}

// ListSlots evaluates every grid start time for the given duration. The
// confirmed-bookings set is fetched fresh on every call; it changes as
// other users book.
func (s *SlotService) ListSlots(turfID, date string, durationMinutes int, now time.Time) ([]models.Slot, error) {
	if durationMinutes <= 0 || durationMinutes%booking.Granularity != 0 {
		return nil, status.ErrInvalidWindow
	}
	if _, err := booking.ParseDate(date); err != nil {
		return nil, status.ErrInvalidWindow
	}

	turf, err := fetchTurf(s.app, turfID)
	if err != nil {
		return nil, err
	}

	opening, err := booking.ParseClock(turf.OpeningTime)
	if err != nil {
		return nil, fmt.Errorf("turf %s opening time: %w", turfID, err)
	}
	closing, err := booking.ParseClock(turf.ClosingTime)
	if err != nil {
		return nil, fmt.Errorf("turf %s closing time: %w", turfID, err)
	}

	slots, err := s.pricing.BandsForTurf(turfID)
	if err != nil {
		return nil, err
	}
	bands, err := booking.ParseBands(slots)
	if err != nil {
		return nil, err
	}

	confirmed, err := queryConfirmed(s.app, turfID, date)
	if err != nil {
		return nil, err
	}
	booked, err := booking.ConfirmedWindows(confirmed)
	if err != nil {
		return nil, err
	}

	var result []models.Slot
	for _, start := range booking.StartTimes(opening, closing) {
		end := start + booking.Clock(durationMinutes)
		result = append(result, models.Slot{
			StartTime: start.String(),
			EndTime:   end.String(),
			Price:     booking.PriceForWindow(bands, start, end),
			Available: booking.IsAvailable(date, start, durationMinutes, closing, booked, now),
		})
	}

	if s.monitor != nil {
		s.monitor.TrackSlotQuery(turfID)
	}

	return result, nil
}

// fetchTurf loads a turf record and rejects inactive turfs.
func fetchTurf(app core.App, turfID string) (*models.Turf, error) {
	record, err := app.FindRecordById("turfs", turfID)
	if err != nil {
		return nil, err
	}

	turf := &models.Turf{
		ID:          record.Id,
		Name:        record.GetString("name"),
		Location:    record.GetString("location"),
		Description: record.GetString("description"),
		OpeningTime: record.GetString("opening_time"),
		ClosingTime: record.GetString("closing_time"),
		Active:      record.GetBool("active"),
	}
	if !turf.Active {
		return nil, status.ErrTurfInactive
	}
	return turf, nil
}

// queryConfirmed fetches the confirmed bookings for one turf and date.
func queryConfirmed(app core.App, turfID, date string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := app.DB().
		Select("id", "user_id", "turf_id", "booking_date", "start_time", "end_time",
			"duration_minutes", "total_amount", "payment_status", "booking_status").
		From("bookings").
		Where(dbx.HashExp{
			"turf_id":        turfID,
			"booking_date":   date,
			"booking_status": models.BookingConfirmed,
		}).
		OrderBy("start_time ASC").
		All(&bookings)
	if err != nil {
		return nil, fmt.Errorf("fetch confirmed bookings: %w", err)
	}
	return bookings, nil
}

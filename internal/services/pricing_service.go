package services

import (
	"fmt"

	"turf-booking/internal/booking"
	"turf-booking/internal/status"
	"turf-booking/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// PricingService reads the price bands of a turf. Bands are administered
// through the admin API and read-only at booking time.
type PricingService struct {
	app core.App
}

func NewPricingService(app core.App) *PricingService {
	return &PricingService{app: app}
}

// BandsForTurf returns the turf's price bands ordered by start time.
func (s *PricingService) BandsForTurf(turfID string) ([]models.PricingSlot, error) {
	slots := []models.PricingSlot{}
	err := s.app.DB().
		Select("id", "turf_id", "start_time", "end_time", "price_per_hour").
		From("pricing_slots").
		Where(dbx.HashExp{"turf_id": turfID}).
		OrderBy("start_time ASC").
		All(&slots)
	if err != nil {
		return nil, fmt.Errorf("fetch pricing slots: %w", err)
	}
	return slots, nil
}

// ValidateNoBandOverlap rejects a band write that would overlap an existing
// band of the same turf. excludeID skips the band being edited.
func (s *PricingService) ValidateNoBandOverlap(turfID, startTime, endTime, excludeID string) error {
	start, err := booking.ParseClock(startTime)
	if err != nil {
		return status.ErrInvalidWindow
	}
	end, err := booking.ParseClock(endTime)
	if err != nil {
		return status.ErrInvalidWindow
	}
	if start >= end {
		return status.ErrInvalidWindow
	}

	existing, err := s.BandsForTurf(turfID)
	if err != nil {
		return err
	}

	candidate := booking.Window{Start: start, End: end}
	for _, slot := range existing {
		if slot.ID == excludeID {
			continue
		}
		bandStart, err := booking.ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		bandEnd, err := booking.ParseClock(slot.EndTime)
		if err != nil {
			continue
		}
		if booking.Overlaps(candidate, booking.Window{Start: bandStart, End: bandEnd}) {
			return status.ErrBandOverlap
		}
	}
	return nil
}

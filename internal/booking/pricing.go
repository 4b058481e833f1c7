package booking

import (
	"math"

	"turf-booking/models"
)

// Band is a parsed hourly price band over the half-open [Start, End)
// time-of-day interval.
type Band struct {
	Start   Clock
	End     Clock
	PerHour int
}

// ParseBands converts stored pricing slots into Bands, preserving order.
func ParseBands(slots []models.PricingSlot) ([]Band, error) {
	bands := make([]Band, 0, len(slots))
	for _, s := range slots {
		start, err := ParseClock(s.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(s.EndTime)
		if err != nil {
			return nil, err
		}
		bands = append(bands, Band{Start: start, End: end, PerHour: s.PricePerHour})
	}
	return bands, nil
}

// PriceForWindow integrates the band rates over [start, end), walking in
// Granularity increments. Each increment is priced by the first band whose
// interval contains its start instant, or by DefaultHourlyRate when none
// does. The accumulated sum is rounded half away from zero.
//
// A window ending exactly on a band boundary never consults the band that
// begins there: the last sampled instant is end-Granularity.
func PriceForWindow(bands []Band, start, end Clock) int {
	total := 0.0
	for t := start; t < end; t += Granularity {
		rate := DefaultHourlyRate
		for _, b := range bands {
			if t >= b.Start && t < b.End {
				rate = b.PerHour
				break
			}
		}
		total += float64(rate) * Granularity / 60
	}
	return int(math.Round(total))
}

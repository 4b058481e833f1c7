package booking

import (
	"testing"

	"turf-booking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, s string) Clock {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

// Bands covering a 06:00-22:00 day: morning 400/hr, daytime 600/hr,
// evening 800/hr.
func dayBands(t *testing.T) []Band {
	t.Helper()
	bands, err := ParseBands([]models.PricingSlot{
		{ID: "b1", TurfID: "t1", StartTime: "06:00", EndTime: "12:00", PricePerHour: 400},
		{ID: "b2", TurfID: "t1", StartTime: "12:00", EndTime: "18:00", PricePerHour: 600},
		{ID: "b3", TurfID: "t1", StartTime: "18:00", EndTime: "22:00", PricePerHour: 800},
	})
	require.NoError(t, err)
	return bands
}

func TestPriceForWindow(t *testing.T) {
	bands := dayBands(t)

	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"single band one hour", "07:00", "08:00", 400},
		{"single band half hour", "07:00", "07:30", 200},
		{"crosses band boundary", "11:00", "13:00", 1000},
		{"half in each band", "11:30", "12:30", 500},
		{"evening rate", "19:00", "20:30", 1200},
		{"ends on band boundary", "11:00", "12:00", 400},
		{"starts on band boundary", "12:00", "13:00", 600},
		{"three bands", "11:00", "19:00", 4800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceForWindow(bands, mustClock(t, tt.start), mustClock(t, tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceForWindowDefaultRate(t *testing.T) {
	// No bands at all: every increment bills at the default rate.
	assert.Equal(t, DefaultHourlyRate, PriceForWindow(nil, mustClock(t, "10:00"), mustClock(t, "11:00")))

	// A gap between bands falls back to the default rate.
	bands, err := ParseBands([]models.PricingSlot{
		{StartTime: "06:00", EndTime: "09:00", PricePerHour: 400},
		{StartTime: "17:00", EndTime: "22:00", PricePerHour: 800},
	})
	require.NoError(t, err)

	// 08:00-10:00 = 1h at 400 + 1h at default 500.
	assert.Equal(t, 900, PriceForWindow(bands, mustClock(t, "08:00"), mustClock(t, "10:00")))
}

func TestPriceForWindowRounding(t *testing.T) {
	bands, err := ParseBands([]models.PricingSlot{
		{StartTime: "06:00", EndTime: "22:00", PricePerHour: 525},
	})
	require.NoError(t, err)

	// Half an hour at 525/hr is 262.5, rounded half away from zero.
	assert.Equal(t, 263, PriceForWindow(bands, mustClock(t, "10:00"), mustClock(t, "10:30")))
}

func TestPriceForWindowAdditive(t *testing.T) {
	bands := dayBands(t)
	start := mustClock(t, "10:00")
	mid := mustClock(t, "13:30")
	end := mustClock(t, "16:00")

	whole := PriceForWindow(bands, start, end)
	split := PriceForWindow(bands, start, mid) + PriceForWindow(bands, mid, end)
	assert.Equal(t, whole, split)
}

func TestParseBandsRejectsBadTimes(t *testing.T) {
	_, err := ParseBands([]models.PricingSlot{
		{StartTime: "6am", EndTime: "12:00", PricePerHour: 400},
	})
	assert.Error(t, err)
}

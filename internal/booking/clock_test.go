package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:00", 360, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"09:00:00", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
		{"10:0x", 0, true},
		{"10:x0", 0, true},
		{"1x:00", 0, true},
		{"-1:00", 0, true},
		{"10 00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "00:00", Clock(0).String())
	assert.Equal(t, "06:00", Clock(360).String())
	assert.Equal(t, "09:30", Clock(570).String())
	assert.Equal(t, "23:59", Clock(1439).String())
}

func TestClockStringRoundTrip(t *testing.T) {
	for c := Clock(0); c < 24*60; c += Granularity {
		parsed, err := ParseClock(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestClockInstant(t *testing.T) {
	instant, err := Clock(570).Instant("2026-09-15")
	require.NoError(t, err)

	assert.Equal(t, 2026, instant.Year())
	assert.Equal(t, time.September, instant.Month())
	assert.Equal(t, 15, instant.Day())
	assert.Equal(t, 9, instant.Hour())
	assert.Equal(t, 30, instant.Minute())

	_, err = Clock(570).Instant("15-09-2026")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2026-09-15")
	assert.NoError(t, err)

	_, err = ParseDate("2026-9-15")
	assert.Error(t, err)

	_, err = ParseDate("tomorrow")
	assert.Error(t, err)
}

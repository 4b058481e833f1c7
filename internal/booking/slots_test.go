package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTimes(t *testing.T) {
	opening, err := ParseClock("06:00")
	require.NoError(t, err)
	closing, err := ParseClock("22:00")
	require.NoError(t, err)

	starts := StartTimes(opening, closing)

	// 16 operating hours, two candidate starts per hour.
	require.Len(t, starts, 32)
	assert.Equal(t, opening, starts[0])
	assert.Equal(t, "21:30", starts[len(starts)-1].String())

	for i, s := range starts {
		assert.Equal(t, opening+Clock(i*Granularity), s)
	}
}

func TestStartTimesEmptyWhenClosed(t *testing.T) {
	assert.Empty(t, StartTimes(600, 600))
	assert.Empty(t, StartTimes(600, 570))
}

package booking

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day in minutes since midnight.
// Bookings are stored as "HH:MM" strings; zero-padded string order and
// Clock order agree, so either form can be compared.
type Clock int

const (
	// Granularity is the slot step shared by the grid, the price walk and
	// window validation. The product never constructs windows off this step.
	Granularity = 30

	// DefaultHourlyRate applies to any increment not covered by a price band.
	DefaultHourlyRate = 500

	dateLayout = "2006-01-02"
)

// ParseClock parses "HH:MM". Every character is checked: a window that
// fails here never reaches the store.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("parse clock %q: not a HH:MM time", s)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("parse clock %q: not a HH:MM time", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: not a HH:MM time", s)
	}
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Instant combines a "YYYY-MM-DD" date with the time of day into a local
// wall-clock moment. No timezone conversion happens here.
func (c Clock) Instant(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return day.Add(time.Duration(c) * time.Minute), nil
}

// ParseDate validates a "YYYY-MM-DD" booking date.
func ParseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return day, nil
}

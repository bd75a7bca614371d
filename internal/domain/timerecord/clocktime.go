package timerecord

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision, stored as
// minutes since midnight.
type ClockTime int

const (
	clockLayout        = "15:04"
	clockLayoutSeconds = "15:04:05"
	minutesPerDay      = 24 * 60
)

// ParseClockTime accepts "HH:MM" and "HH:MM:SS"; seconds are dropped.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		t, err = time.Parse(clockLayoutSeconds, s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// ClockTimeOf returns the wall-clock minute of t in t's location.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) Minutes() int {
	return int(c)
}

func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

// On returns the instant of c on the given civil date in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, loc)
}

func (c ClockTime) Ptr() *ClockTime {
	return &c
}

// FormatClock renders an optional clock value for responses.
func FormatClock(c *ClockTime) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

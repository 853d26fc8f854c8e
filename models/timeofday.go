package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time expressed as minutes from midnight.
// Values are clamped to [0, 1439]; a time never wraps past midnight.
type TimeOfDay int

const (
	// MinutesPerDay is the number of addressable minutes in one day (00:00–23:59).
	MinutesPerDay = 24 * 60

	// EndOfDay is the last addressable minute of a day (23:59).
	EndOfDay TimeOfDay = MinutesPerDay - 1
)

// ParseClock parses an "HH:MM" string into a TimeOfDay.
// Malformed input yields midnight, matching how stored slot data is treated
// when reconstituted: never an error, just the zero time.
func ParseClock(s string) TimeOfDay {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0
	}
	return TimeOfDay(h*60 + m)
}

// Clock renders the time as "HH:MM".
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time advanced by the given number of minutes,
// clamped at 23:59.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	sum := int(t) + minutes
	if sum > int(EndOfDay) {
		return EndOfDay
	}
	if sum < 0 {
		return 0
	}
	return TimeOfDay(sum)
}

// Sub returns the difference end - t in minutes.
func (t TimeOfDay) Sub(other TimeOfDay) int {
	return int(t) - int(other)
}

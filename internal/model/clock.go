package model

import (
	"fmt"

	"github.com/samber/lo"
)

// Day is a weekday index, Monday through Sunday.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Days lists all weekdays in order.
func Days() []Day {
	return lo.RepeatBy(len(dayNames), func(i int) Day { return Day(i) })
}

// ParseDay maps a lowercase weekday name to its Day.
func ParseDay(name string) (Day, error) {
	index := lo.IndexOf(dayNames[:], name)
	if index < 0 {
		return 0, fmt.Errorf("invalid day %q", name)
	}
	return Day(index), nil
}

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("day(%d)", int(d))
	}
	return dayNames[d]
}

func (d Day) MarshalText() ([]byte, error) {
	if d < Monday || d > Sunday {
		return nil, fmt.Errorf("invalid day %d", int(d))
	}
	return []byte(dayNames[d]), nil
}

func (d *Day) UnmarshalText(text []byte) error {
	day, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// ParseClock converts a "HH:MM" clock string to minutes since midnight.
func ParseClock(clock string) (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(clock, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

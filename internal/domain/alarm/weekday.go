package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// WeekdayMask is a 7-bit set where bit d marks weekday d as active (0=Sunday..6=Saturday).
type WeekdayMask uint8

const (
	// NoWeekdays is the empty mask.
	NoWeekdays WeekdayMask = 0
	// AllWeekdays marks every day of the week.
	AllWeekdays WeekdayMask = 0b1111111
	// WorkWeek marks Monday through Friday.
	WorkWeek WeekdayMask = 0b0111110
	// Weekend marks Saturday and Sunday.
	Weekend WeekdayMask = 0b1000001
)

// daysPerWeek is the number of bits used by a WeekdayMask.
const daysPerWeek = 7

// ErrInvalidWeekday is returned when a weekday name cannot be parsed.
var ErrInvalidWeekday = errors.New("invalid weekday")

// MaskOf builds a mask from the given weekdays.
func MaskOf(days ...time.Weekday) WeekdayMask {
	var mask WeekdayMask

	for _, day := range days {
		mask |= 1 << (uint(day) % daysPerWeek)
	}

	return mask & AllWeekdays
}

// Has reports whether the weekday is part of the mask.
func (m WeekdayMask) Has(day time.Weekday) bool {
	return m&(1<<(uint(day)%daysPerWeek)) != 0
}

// Days lists the weekdays of the mask starting from Sunday.
func (m WeekdayMask) Days() []time.Weekday {
	days := make([]time.Weekday, 0, daysPerWeek)

	for day := time.Sunday; day <= time.Saturday; day++ {
		if m.Has(day) {
			days = append(days, day)
		}
	}

	return days
}

// String renders the mask as a comma separated list of short day names.
func (m WeekdayMask) String() string {
	days := m.Days()
	if len(days) == 0 {
		return "none"
	}

	names := make([]string, 0, len(days))
	for _, day := range days {
		names = append(names, strings.ToLower(day.String()[:3]))
	}

	return strings.Join(names, ",")
}

// ParseWeekdays parses a list such as "mon,wed,fri" or "sunday saturday".
func ParseWeekdays(s string) (WeekdayMask, error) {
	var mask WeekdayMask

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})

	for _, field := range fields {
		day, ok := lookupWeekday(field)
		if !ok {
			return NoWeekdays, fmt.Errorf("%w: %q", ErrInvalidWeekday, field)
		}

		mask |= MaskOf(day)
	}

	return mask, nil
}

// lookupWeekday resolves a day by its full or three-letter English name.
func lookupWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))

	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, true
		}
	}

	return time.Sunday, false
}

package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// errBadClock is returned for times not in HH:MM form.
var errBadClock = errors.New("time must be HH:MM")

// ParseSpec builds an alarm spec from command-line values.
// at is "HH:MM", repeat a mode name or number and days a weekday list used by custom alarms.
func ParseSpec(at, repeat, days, label, music string) (domain.Spec, error) {
	hour, minute, err := ParseClock(at)
	if err != nil {
		return domain.Spec{}, err
	}

	mode := domain.Once
	if repeat != "" {
		if mode, err = domain.ParseRepeatMode(repeat); err != nil {
			return domain.Spec{}, err
		}
	}

	var mask domain.WeekdayMask

	if days != "" {
		if mask, err = domain.ParseWeekdays(days); err != nil {
			return domain.Spec{}, err
		}

		// A weekday list alone implies a custom alarm.
		if repeat == "" {
			mode = domain.Custom
		}
	}

	spec := domain.Spec{
		Hour:      hour,
		Minute:    minute,
		Repeat:    mode,
		Weekdays:  mask,
		Label:     label,
		MusicName: music,
	}

	return spec, spec.Validate()
}

// ParseClock splits "HH:MM" into hour and minute and checks their range.
func ParseClock(at string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(at), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errBadClock, at)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errBadClock, at)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errBadClock, at)
	}

	if err = domain.ValidateTime(hour, minute); err != nil {
		return 0, 0, err
	}

	return hour, minute, nil
}

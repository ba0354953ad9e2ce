package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrSlowTick is returned for tick schedules that can leave a minute without an evaluation.
var ErrSlowTick = errors.New("tick must run at least once every minute")

// tickParser accepts five fields, six with leading seconds, or a descriptor such as "@every 15s".
var tickParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseTick parses the alarm evaluation schedule. Alarms match on the exact minute of day,
// so every minute of every day must be covered by at least one tick.
func ParseTick(spec string) (cron.Schedule, error) {
	schedule, err := tickParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse tick %q: %w", spec, err)
	}

	switch s := schedule.(type) {
	case cron.ConstantDelaySchedule:
		if s.Delay > time.Minute {
			return nil, fmt.Errorf("tick %q fires every %s: %w", spec, s.Delay, ErrSlowTick)
		}
	case *cron.SpecSchedule:
		if !everyMinute(s) {
			return nil, fmt.Errorf("tick %q skips minutes: %w", spec, ErrSlowTick)
		}
	default:
		return nil, fmt.Errorf("tick %q has an unsupported schedule: %w", spec, ErrSlowTick)
	}

	return schedule, nil
}

// everyMinute reports whether the schedule fires in every minute, hour, day and month.
func everyMinute(s *cron.SpecSchedule) bool {
	return s.Second != 0 &&
		covers(s.Minute, 0, 59) &&
		covers(s.Hour, 0, 23) &&
		covers(s.Dom, 1, 31) &&
		covers(s.Month, 1, 12) &&
		covers(s.Dow, 0, 6)
}

func covers(bits uint64, lo, hi uint) bool {
	var want uint64

	for i := lo; i <= hi; i++ {
		want |= 1 << i
	}

	return bits&want == want
}

package scheduler

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

const (
	// NoActiveAlarms is reported when no enabled alarm fires within the next week.
	NoActiveAlarms = "No active alarms"
	// NotInitialized is reported by NextAlarmDescription before Initialize.
	NotInitialized = "Alarm manager is not initialized"

	daysPerWeek = 7
)

// NextAlarm returns the enabled alarm that fires soonest and the distance to it in minutes.
// Ties go to the alarm stored first. The current minute counts as already passed.
func (m *Manager) NextAlarm() (domain.Alarm, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.Alarm{}, 0, false
	}

	var (
		now        = m.clock.Now()
		nowMinutes = now.Hour()*domain.MinutesPerHour + now.Minute()
		today      = int(now.Weekday())
		best       domain.Alarm
		bestDist   int
		found      bool
	)

	for _, a := range m.alarms {
		if a.Status != domain.Enabled {
			continue
		}

		dist, ok := minutesUntil(a, nowMinutes, today)
		if !ok {
			continue
		}

		if !found || dist < bestDist {
			best, bestDist, found = a, dist, true
		}
	}

	return best, bestDist, found
}

// NextAlarmDescription renders the soonest alarm, e.g. "Next alarm: 07:30 (in 1h 5m) - work".
func (m *Manager) NextAlarmDescription() string {
	m.mu.Lock()
	initialized := m.initialized
	m.mu.Unlock()

	if !initialized {
		return NotInitialized
	}

	a, dist, ok := m.NextAlarm()
	if !ok {
		return NoActiveAlarms
	}

	var b strings.Builder

	b.WriteString("Next alarm: ")
	b.WriteString(domain.FormatTime(a.Hour, a.Minute))
	b.WriteString(" (in ")
	b.WriteString(formatDistance(dist))
	b.WriteString(")")

	if a.Label != "" {
		b.WriteString(" - ")
		b.WriteString(a.Label)
	}

	return b.String()
}

// minutesUntil finds the first active day within a week on which the alarm has not yet passed.
func minutesUntil(a domain.Alarm, nowMinutes, today int) (int, bool) {
	alarmMinutes := a.MinuteOfDay()

	for offset := range daysPerWeek {
		if offset == 0 && alarmMinutes <= nowMinutes {
			continue
		}

		if offset > 0 && a.Repeat == domain.Once {
			break
		}

		day := time.Weekday((today + offset) % daysPerWeek)
		if a.ActiveOn(day) {
			return offset*domain.MinutesPerDay + alarmMinutes - nowMinutes, true
		}
	}

	return 0, false
}

func formatDistance(minutes int) string {
	switch {
	case minutes >= domain.MinutesPerDay:
		days := minutes / domain.MinutesPerDay
		if days == 1 {
			return "1 day"
		}

		return fmt.Sprintf("%d days", days)
	case minutes >= domain.MinutesPerHour:
		return fmt.Sprintf("%dh %dm", minutes/domain.MinutesPerHour, minutes%domain.MinutesPerHour)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

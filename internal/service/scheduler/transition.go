package scheduler

import (
	"context"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// refireGuardSeconds suppresses a second fire of the same alarm inside one minute.
const refireGuardSeconds = 60

// Evaluate runs one scheduler tick: expired snoozes ring again and enabled alarms whose
// minute matches the current wall-clock minute start ringing. It must run at least once a minute.
func (m *Manager) Evaluate(ctx context.Context) {
	var fired events

	m.mu.Lock()

	if !m.initialized {
		m.mu.Unlock()

		return
	}

	var (
		now         = m.clock.Now()
		mono        = m.clock.MonotonicSeconds()
		minuteOfDay = now.Hour()*domain.MinutesPerHour + now.Minute()
		weekday     = now.Weekday()
		changed     bool
	)

	for i := range m.alarms {
		a := &m.alarms[i]

		if a.Status == domain.Snoozed && mono >= a.NextSnoozeAt {
			a.Status = domain.Triggered
			a.NextSnoozeAt = 0
			changed = true

			logger.Infof(ctx, "Snooze ended for alarm %d, ringing again", a.ID)
			fired.add(m.onTriggered, *a)

			continue
		}

		if a.Status != domain.Enabled ||
			a.MinuteOfDay() != minuteOfDay ||
			!a.ActiveOn(weekday) {
			continue
		}

		if a.LastTriggeredAt > 0 && mono-a.LastTriggeredAt < refireGuardSeconds {
			continue
		}

		a.Status = domain.Triggered
		a.LastTriggeredAt = mono
		a.SnoozeCount = 0
		changed = true

		logger.InfoKV(ctx, "Alarm triggered", "id", a.ID, "time", a.Describe(), "label", a.Label)
		fired.add(m.onTriggered, *a)
	}

	if changed {
		m.persistLocked(ctx, "evaluate")
	}

	m.mu.Unlock()

	fired.dispatch()
}

// Snooze postpones a Triggered alarm by its snooze duration. At the snooze ceiling the
// alarm is stopped instead and Snooze returns false.
func (m *Manager) Snooze(ctx context.Context, id int) bool {
	var fired events

	m.mu.Lock()

	if !m.initialized {
		m.mu.Unlock()

		return false
	}

	idx := m.indexLocked(id)
	if idx < 0 || m.alarms[idx].Status != domain.Triggered {
		m.mu.Unlock()

		return false
	}

	a := &m.alarms[idx]
	snoozed := a.SnoozeCount < a.MaxSnoozeCount

	if snoozed {
		a.SnoozeCount++
		a.Status = domain.Snoozed
		a.NextSnoozeAt = m.clock.MonotonicSeconds() + int64(a.SnoozeMinutes)*60

		logger.Infof(ctx, "Snoozed alarm %d for %d minutes (count: %d/%d)",
			a.ID, a.SnoozeMinutes, a.SnoozeCount, a.MaxSnoozeCount)
		fired.add(m.onSnoozed, *a)
	} else {
		logger.Infof(ctx, "Alarm %d reached its snooze limit, stopping", a.ID)
		m.stopLocked(idx, &fired)
	}

	m.persistLocked(ctx, "snooze")
	m.mu.Unlock()

	fired.dispatch()

	return snoozed
}

// Stop silences a Triggered or Snoozed alarm. Once alarms become Disabled, repeating ones re-arm.
func (m *Manager) Stop(ctx context.Context, id int) bool {
	var fired events

	m.mu.Lock()

	if !m.initialized {
		m.mu.Unlock()

		return false
	}

	idx := m.indexLocked(id)
	if idx < 0 || !m.alarms[idx].Status.Ringing() {
		m.mu.Unlock()

		return false
	}

	m.stopLocked(idx, &fired)
	m.persistLocked(ctx, "stop")
	m.mu.Unlock()

	logger.Infof(ctx, "Stopped alarm %d", id)
	fired.dispatch()

	return true
}

// StopAll stops every ringing alarm and returns how many were stopped.
func (m *Manager) StopAll(ctx context.Context) int {
	var fired events

	m.mu.Lock()

	if !m.initialized {
		m.mu.Unlock()

		return 0
	}

	stopped := 0

	for i := range m.alarms {
		if m.alarms[i].Status.Ringing() {
			m.stopLocked(i, &fired)
			stopped++
		}
	}

	if stopped > 0 {
		m.persistLocked(ctx, "stop all")
	}

	m.mu.Unlock()

	logger.Infof(ctx, "Stopped %d active alarms", stopped)
	fired.dispatch()

	return stopped
}

// stopLocked applies the stop transition to the alarm at idx.
func (m *Manager) stopLocked(idx int, fired *events) {
	a := &m.alarms[idx]

	if a.Repeat == domain.Once {
		a.Status = domain.Disabled
	} else {
		a.Status = domain.Enabled
	}

	a.SnoozeCount = 0
	a.NextSnoozeAt = 0

	fired.add(m.onStopped, *a)
}

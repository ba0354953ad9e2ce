package scheduler

import (
	"context"
	"slices"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Add validates spec, assigns the next id and stores an enabled alarm.
// Invalid input leaves the collection untouched.
func (m *Manager) Add(ctx context.Context, spec domain.Spec) (int, error) {
	if err := spec.Validate(); err != nil {
		logger.Warnf(ctx, "Rejected alarm: %v", err)

		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return 0, ErrNotInitialized
	}

	a := domain.New(m.nextID, spec, m.snoozeMinutes, m.maxSnoozeCount)
	m.nextID++
	m.alarms = append(m.alarms, a)

	m.persistLocked(ctx, "add")

	logger.InfoKV(ctx, "Added alarm",
		"id", a.ID,
		"time", a.Describe(),
		"label", a.Label,
		"music", a.MusicName)

	return a.ID, nil
}

// Remove deletes the alarm regardless of its status and reports whether it existed.
func (m *Manager) Remove(ctx context.Context, id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return false
	}

	idx := m.indexLocked(id)
	if idx < 0 {
		logger.Warnf(ctx, "Alarm %d not found for removal", id)

		return false
	}

	m.alarms = slices.Delete(m.alarms, idx, idx+1)
	m.persistLocked(ctx, "remove")

	logger.Infof(ctx, "Removed alarm %d", id)

	return true
}

// Enable switches an alarm between Enabled and Disabled. A ringing alarm keeps its
// status; the call still reports the alarm as found.
func (m *Manager) Enable(ctx context.Context, id int, enabled bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return false
	}

	idx := m.indexLocked(id)
	if idx < 0 {
		return false
	}

	a := &m.alarms[idx]
	if a.Status.Ringing() {
		logger.Infof(ctx, "Alarm %d is %s, enable request ignored", id, a.Status)

		return true
	}

	if enabled {
		a.Status = domain.Enabled
	} else {
		a.Status = domain.Disabled
	}

	m.persistLocked(ctx, "enable")

	logger.Infof(ctx, "Alarm %d %s", id, a.Status)

	return true
}

// Modify replaces the user-editable fields of the alarm. Status and snooze counters are kept.
func (m *Manager) Modify(ctx context.Context, id int, spec domain.Spec) (bool, error) {
	if err := spec.Validate(); err != nil {
		logger.Warnf(ctx, "Rejected modification of alarm %d: %v", id, err)

		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return false, ErrNotInitialized
	}

	idx := m.indexLocked(id)
	if idx < 0 {
		return false, nil
	}

	m.alarms[idx].Apply(spec)
	m.persistLocked(ctx, "modify")

	logger.InfoKV(ctx, "Modified alarm", "id", id, "time", m.alarms[idx].Describe())

	return true, nil
}

// All returns a copy of every alarm in stored order.
func (m *Manager) All() []domain.Alarm {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return []domain.Alarm{}
	}

	return slices.Clone(m.alarms)
}

// Active returns a copy of the alarms that are Triggered or Snoozed.
func (m *Manager) Active() []domain.Alarm {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := make([]domain.Alarm, 0)

	if !m.initialized {
		return active
	}

	for _, a := range m.alarms {
		if a.Status.Ringing() {
			active = append(active, a)
		}
	}

	return active
}

// Get returns a copy of the alarm with the id.
func (m *Manager) Get(id int) (domain.Alarm, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.Alarm{}, false
	}

	idx := m.indexLocked(id)
	if idx < 0 {
		return domain.Alarm{}, false
	}

	return m.alarms[idx], true
}

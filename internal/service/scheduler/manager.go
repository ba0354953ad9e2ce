package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/oshokin/alarm-clock/internal/clock"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/alarms"
)

// Callback receives a snapshot of the alarm whose state changed.
type Callback func(domain.Alarm)

// ErrNotInitialized is returned by Add and Modify before Initialize succeeds or after Close.
var ErrNotInitialized = errors.New("alarm manager is not initialized")

// Manager is the alarm store and scheduler. The zero value is not usable, create it with New.
type Manager struct {
	// repo mirrors the collection to durable storage.
	repo alarms.Repository
	// clock supplies wall-clock time and monotonic seconds.
	clock clock.Clock

	// mu guards every field below.
	mu sync.Mutex
	// initialized is true between Initialize and Close.
	initialized bool
	// alarms is the collection in stored order.
	alarms []domain.Alarm
	// nextID is the id the next added alarm receives.
	nextID int
	// snoozeMinutes is applied to alarms created from now on.
	snoozeMinutes int
	// maxSnoozeCount is applied to alarms created from now on.
	maxSnoozeCount int

	onTriggered Callback
	onSnoozed   Callback
	onStopped   Callback
}

// Option configures a Manager.
type Option func(*Manager)

// WithSnoozeMinutes sets the initial default snooze duration, clamped to [1,60].
func WithSnoozeMinutes(minutes int) Option {
	return func(m *Manager) {
		m.snoozeMinutes = domain.ClampSnoozeMinutes(minutes)
	}
}

// WithMaxSnoozeCount sets the initial default snooze ceiling, clamped to [0,10].
func WithMaxSnoozeCount(count int) Option {
	return func(m *Manager) {
		m.maxSnoozeCount = domain.ClampSnoozeCount(count)
	}
}

// New creates a manager on top of the repository. Call Initialize before use.
func New(repo alarms.Repository, clk clock.Clock, opts ...Option) *Manager {
	if clk == nil {
		clk = clock.NewSystem()
	}

	m := &Manager{
		repo:           repo,
		clock:          clk,
		nextID:         1,
		snoozeMinutes:  domain.DefaultSnoozeMinutes,
		maxSnoozeCount: domain.DefaultMaxSnoozeCount,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Initialize loads the persisted collection. Calling it twice is a no-op.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	snapshot, err := m.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load alarms: %w", err)
	}

	m.alarms = snapshot.Alarms
	m.nextID = max(snapshot.NextID, 1)
	m.initialized = true

	logger.InfoKV(ctx, "Alarm manager initialized", "alarms", len(m.alarms), "next_id", m.nextID)

	return nil
}

// Close stops every ringing alarm, persists the collection and releases it.
// Stopped callbacks are delivered before Close returns.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()

	if !m.initialized {
		m.mu.Unlock()

		return nil
	}

	var fired events

	for i := range m.alarms {
		if m.alarms[i].Status.Ringing() {
			m.stopLocked(i, &fired)
		}
	}

	err := m.repo.Save(ctx, m.snapshotLocked())

	m.alarms = nil
	m.initialized = false
	m.mu.Unlock()

	fired.dispatch()

	if err != nil {
		return fmt.Errorf("persist alarms: %w", err)
	}

	logger.Info(ctx, "Alarm manager closed")

	return nil
}

// OnTriggered registers the callback invoked when an alarm starts ringing.
// A later registration replaces the earlier one; nil unregisters.
func (m *Manager) OnTriggered(cb Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onTriggered = cb
}

// OnSnoozed registers the callback invoked when an alarm is snoozed.
func (m *Manager) OnSnoozed(cb Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onSnoozed = cb
}

// OnStopped registers the callback invoked when a ringing alarm is stopped.
func (m *Manager) OnStopped(cb Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onStopped = cb
}

// SetDefaultSnoozeMinutes clamps and stores the snooze duration for alarms created afterwards.
func (m *Manager) SetDefaultSnoozeMinutes(minutes int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snoozeMinutes = domain.ClampSnoozeMinutes(minutes)
}

// SetDefaultMaxSnoozeCount clamps and stores the snooze ceiling for alarms created afterwards.
func (m *Manager) SetDefaultMaxSnoozeCount(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maxSnoozeCount = domain.ClampSnoozeCount(count)
}

// Defaults returns the current default snooze duration and ceiling.
func (m *Manager) Defaults() (snoozeMinutes, maxSnoozeCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snoozeMinutes, m.maxSnoozeCount
}

// persistLocked writes the whole collection. A failure is logged and the in-memory state stands.
func (m *Manager) persistLocked(ctx context.Context, operation string) {
	if err := m.repo.Save(ctx, m.snapshotLocked()); err != nil {
		logger.ErrorKV(ctx, "Failed to persist alarms", "operation", operation, "error", err)
	}
}

func (m *Manager) snapshotLocked() alarms.Snapshot {
	return alarms.Snapshot{
		NextID: m.nextID,
		Alarms: slices.Clone(m.alarms),
	}
}

// indexLocked returns the position of the alarm with the id, or -1.
func (m *Manager) indexLocked(id int) int {
	return slices.IndexFunc(m.alarms, func(a domain.Alarm) bool {
		return a.ID == id
	})
}

// event is a callback bound to the snapshot it must receive.
type event struct {
	callback Callback
	alarm    domain.Alarm
}

// events collects callbacks inside the critical section for delivery after unlock.
type events []event

func (e *events) add(cb Callback, a domain.Alarm) {
	if cb == nil {
		return
	}

	*e = append(*e, event{callback: cb, alarm: a})
}

func (e events) dispatch() {
	for _, ev := range e {
		ev.callback(ev.alarm)
	}
}

package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RepeatMode classifies how an alarm recurs. The numeric values are the persisted form.
type RepeatMode int

const (
	// Once fires on the next matching minute and then disables itself when stopped.
	Once RepeatMode = iota
	// Daily fires every day.
	Daily
	// Weekdays fires Monday through Friday.
	Weekdays
	// Weekends fires on Saturday and Sunday.
	Weekends
	// Custom fires on the caller-supplied weekday mask.
	Custom
)

// repeatModeNames maps repeat modes to their wire and display names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var repeatModeNames = map[RepeatMode]string{
	Once:     "once",
	Daily:    "daily",
	Weekdays: "weekdays",
	Weekends: "weekends",
	Custom:   "custom",
}

// Status is the single tagged life-cycle state of an alarm.
// Enabled/Disabled are administrative, Triggered/Snoozed mean the alarm is ringing or about to ring again.
type Status int

const (
	// Enabled alarms are armed and wait for their next occurrence.
	Enabled Status = iota
	// Disabled alarms never fire.
	Disabled
	// Triggered alarms are ringing and wait for snooze or stop.
	Triggered
	// Snoozed alarms ring again once the snooze deadline passes.
	Snoozed
)

// statusNames maps statuses to their wire and display names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var statusNames = map[Status]string{
	Enabled:   "enabled",
	Disabled:  "disabled",
	Triggered: "triggered",
	Snoozed:   "snoozed",
}

const (
	// DefaultSnoozeMinutes is the snooze duration applied to new alarms.
	DefaultSnoozeMinutes = 5
	// DefaultMaxSnoozeCount is the snooze ceiling applied to new alarms.
	DefaultMaxSnoozeCount = 3

	// MinSnoozeMinutes and MaxSnoozeMinutes bound the configurable snooze duration.
	MinSnoozeMinutes = 1
	MaxSnoozeMinutes = 60

	// MinSnoozeCount and MaxSnoozeCount bound the configurable snooze ceiling.
	MinSnoozeCount = 0
	MaxSnoozeCount = 10

	// MinutesPerHour and MinutesPerDay are used for minute-of-day arithmetic.
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

var (
	// ErrInvalidTime is returned when hour or minute is out of range.
	ErrInvalidTime = errors.New("invalid alarm time")
	// ErrInvalidRepeatMode is returned for repeat modes outside the known set.
	ErrInvalidRepeatMode = errors.New("invalid repeat mode")
	// ErrInvalidStatus is returned when a status name cannot be parsed.
	ErrInvalidStatus = errors.New("invalid alarm status")
)

// Alarm is a value snapshot of one alarm. Copies never share state with the store.
type Alarm struct {
	// ID identifies the alarm for the lifetime of the process and across restarts.
	ID int
	// Hour is the local wall-clock hour (0-23).
	Hour int
	// Minute is the local wall-clock minute (0-59).
	Minute int
	// Repeat decides which weekdays are active.
	Repeat RepeatMode
	// Weekdays is the active weekday set; ignored for Once alarms.
	Weekdays WeekdayMask
	// Label is free-form user text.
	Label string
	// MusicName is the sound requested on trigger, empty for the default one.
	MusicName string
	// Status is the current life-cycle state.
	Status Status
	// SnoozeCount is the number of snoozes used since the last full stop.
	SnoozeCount int
	// MaxSnoozeCount is the per-alarm snooze ceiling.
	MaxSnoozeCount int
	// SnoozeMinutes is the snooze duration.
	SnoozeMinutes int

	// LastTriggeredAt is the monotonic second of the last fire, zero if never fired. Not persisted.
	LastTriggeredAt int64
	// NextSnoozeAt is the monotonic second at which a snooze expires. Not persisted.
	NextSnoozeAt int64
}

// Spec carries the user-editable fields of an alarm for Add and Modify.
type Spec struct {
	// Hour is the local wall-clock hour (0-23).
	Hour int
	// Minute is the local wall-clock minute (0-59).
	Minute int
	// Repeat is the recurrence of the alarm.
	Repeat RepeatMode
	// Weekdays is only honoured for Custom alarms; the other modes derive their own mask.
	Weekdays WeekdayMask
	// Label is free-form user text.
	Label string
	// MusicName is the requested sound, empty for the default one.
	MusicName string
}

// ValidateTime checks that hour and minute describe a wall-clock minute.
func ValidateTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %d:%d", ErrInvalidTime, hour, minute)
	}

	return nil
}

// Validate checks the time range and the repeat mode.
func (s Spec) Validate() error {
	if err := ValidateTime(s.Hour, s.Minute); err != nil {
		return err
	}

	if !s.Repeat.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidRepeatMode, int(s.Repeat))
	}

	return nil
}

// Valid reports whether the mode is one of the known repeat modes.
func (m RepeatMode) Valid() bool {
	_, ok := repeatModeNames[m]

	return ok
}

// String returns the lower-case name of the repeat mode.
func (m RepeatMode) String() string {
	if name, ok := repeatModeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("repeat(%d)", int(m))
}

// Weekdays derives the active weekday mask for the mode.
// Daily, Weekdays and Weekends have fixed masks; Custom and Once keep the supplied one.
func (m RepeatMode) Weekdays(supplied WeekdayMask) WeekdayMask {
	switch m {
	case Daily:
		return AllWeekdays
	case Weekdays:
		return WorkWeek
	case Weekends:
		return Weekend
	default:
		return supplied & AllWeekdays
	}
}

// ParseRepeatMode resolves a repeat mode by name ("once", "daily", ...) or by its numeric value.
func ParseRepeatMode(s string) (RepeatMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	for mode, modeName := range repeatModeNames {
		if name == modeName || name == fmt.Sprint(int(mode)) {
			return mode, nil
		}
	}

	return Once, fmt.Errorf("%w: %q", ErrInvalidRepeatMode, s)
}

// String returns the lower-case name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// Ringing reports whether the status is Triggered or Snoozed.
func (s Status) Ringing() bool {
	return s == Triggered || s == Snoozed
}

// ParseStatus resolves a status by name.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	for status, statusName := range statusNames {
		if name == statusName {
			return status, nil
		}
	}

	return Enabled, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// New builds an enabled alarm from spec with zeroed runtime counters.
func New(id int, spec Spec, snoozeMinutes, maxSnoozeCount int) Alarm {
	a := Alarm{
		ID:             id,
		Status:         Enabled,
		SnoozeMinutes:  snoozeMinutes,
		MaxSnoozeCount: maxSnoozeCount,
	}

	a.Apply(spec)

	return a
}

// Apply copies the user-editable fields of spec into the alarm and re-derives the weekday mask.
// Status and snooze counters are left untouched.
func (a *Alarm) Apply(spec Spec) {
	a.Hour = spec.Hour
	a.Minute = spec.Minute
	a.Repeat = spec.Repeat
	a.Weekdays = spec.Repeat.Weekdays(spec.Weekdays)
	a.Label = spec.Label
	a.MusicName = spec.MusicName
}

// Spec returns the user-editable fields of the alarm.
func (a Alarm) Spec() Spec {
	return Spec{
		Hour:      a.Hour,
		Minute:    a.Minute,
		Repeat:    a.Repeat,
		Weekdays:  a.Weekdays,
		Label:     a.Label,
		MusicName: a.MusicName,
	}
}

// MinuteOfDay returns hour*60+minute.
func (a Alarm) MinuteOfDay() int {
	return a.Hour*MinutesPerHour + a.Minute
}

// ActiveOn reports whether the alarm may fire on the weekday. Once alarms are weekday-agnostic.
func (a Alarm) ActiveOn(day time.Weekday) bool {
	if a.Repeat == Once {
		return true
	}

	return a.Weekdays.Has(day)
}

// Describe renders the alarm time with its repeat mode, e.g. "07:30 (weekdays)".
func (a Alarm) Describe() string {
	if a.Repeat == Custom {
		return fmt.Sprintf("%s (custom: %s)", FormatTime(a.Hour, a.Minute), a.Weekdays)
	}

	return fmt.Sprintf("%s (%s)", FormatTime(a.Hour, a.Minute), a.Repeat)
}

// FormatTime renders a zero-padded HH:MM string.
func FormatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ClampSnoozeMinutes limits a snooze duration to [MinSnoozeMinutes, MaxSnoozeMinutes].
func ClampSnoozeMinutes(minutes int) int {
	return min(max(minutes, MinSnoozeMinutes), MaxSnoozeMinutes)
}

// ClampSnoozeCount limits a snooze ceiling to [MinSnoozeCount, MaxSnoozeCount].
func ClampSnoozeCount(count int) int {
	return min(max(count, MinSnoozeCount), MaxSnoozeCount)
}

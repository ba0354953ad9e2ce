package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidateTime covers the range borders of hour and minute.
func TestValidateTime(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ hour, minute int }{{0, 0}, {23, 59}, {7, 30}, {12, 0}} {
		require.NoError(t, ValidateTime(tc.hour, tc.minute), "%d:%d", tc.hour, tc.minute)
	}

	for _, tc := range []struct{ hour, minute int }{{-1, 0}, {24, 0}, {0, -1}, {0, 60}, {99, 99}} {
		require.ErrorIs(t, ValidateTime(tc.hour, tc.minute), ErrInvalidTime, "%d:%d", tc.hour, tc.minute)
	}
}

// TestSpecValidate_RepeatMode rejects unknown repeat modes.
func TestSpecValidate_RepeatMode(t *testing.T) {
	t.Parallel()

	require.NoError(t, Spec{Hour: 7, Repeat: Custom}.Validate())
	require.ErrorIs(t, Spec{Hour: 7, Repeat: RepeatMode(9)}.Validate(), ErrInvalidRepeatMode)
}

// TestRepeatModeWeekdays checks the mask derivation rule for every mode.
func TestRepeatModeWeekdays(t *testing.T) {
	t.Parallel()

	supplied := MaskOf(time.Tuesday, time.Thursday)

	require.Equal(t, AllWeekdays, Daily.Weekdays(supplied))
	require.Equal(t, WorkWeek, Weekdays.Weekdays(supplied))
	require.Equal(t, Weekend, Weekends.Weekdays(supplied))
	require.Equal(t, supplied, Custom.Weekdays(supplied))
	require.Equal(t, supplied, Once.Weekdays(supplied))

	require.Equal(t, MaskOf(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday), WorkWeek)
	require.Equal(t, MaskOf(time.Saturday, time.Sunday), Weekend)
}

// TestNewAndApply verifies construction defaults and that Apply keeps runtime state.
func TestNewAndApply(t *testing.T) {
	t.Parallel()

	a := New(4, Spec{Hour: 6, Minute: 45, Repeat: Weekends, Label: "gym"}, 10, 2)
	require.Equal(t, 4, a.ID)
	require.Equal(t, Enabled, a.Status)
	require.Equal(t, Weekend, a.Weekdays)
	require.Equal(t, 10, a.SnoozeMinutes)
	require.Equal(t, 2, a.MaxSnoozeCount)
	require.Zero(t, a.SnoozeCount)

	a.Status = Snoozed
	a.SnoozeCount = 1

	a.Apply(Spec{Hour: 8, Minute: 0, Repeat: Custom, Weekdays: MaskOf(time.Monday)})
	require.Equal(t, Snoozed, a.Status)
	require.Equal(t, 1, a.SnoozeCount)
	require.Equal(t, MaskOf(time.Monday), a.Weekdays)
	require.Equal(t, 480, a.MinuteOfDay())
	require.Equal(t, a.Spec().Weekdays, a.Weekdays)
}

// TestActiveOn checks weekday filtering and the weekday-agnostic Once mode.
func TestActiveOn(t *testing.T) {
	t.Parallel()

	once := Alarm{Repeat: Once}
	workdays := Alarm{Repeat: Weekdays, Weekdays: WorkWeek}

	for day := time.Sunday; day <= time.Saturday; day++ {
		require.True(t, once.ActiveOn(day))
	}

	require.True(t, workdays.ActiveOn(time.Monday))
	require.True(t, workdays.ActiveOn(time.Friday))
	require.False(t, workdays.ActiveOn(time.Saturday))
	require.False(t, workdays.ActiveOn(time.Sunday))
}

// TestParseNames round-trips repeat modes and statuses through their names.
func TestParseNames(t *testing.T) {
	t.Parallel()

	for _, mode := range []RepeatMode{Once, Daily, Weekdays, Weekends, Custom} {
		got, err := ParseRepeatMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, got)
	}

	got, err := ParseRepeatMode("2")
	require.NoError(t, err)
	require.Equal(t, Weekdays, got)

	_, err = ParseRepeatMode("hourly")
	require.ErrorIs(t, err, ErrInvalidRepeatMode)

	for _, status := range []Status{Enabled, Disabled, Triggered, Snoozed} {
		got, err := ParseStatus(status.String())
		require.NoError(t, err)
		require.Equal(t, status, got)
	}

	_, err = ParseStatus("ringing")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

// TestDescribe covers the time formatting helpers.
func TestDescribe(t *testing.T) {
	t.Parallel()

	require.Equal(t, "07:05", FormatTime(7, 5))
	require.Equal(t, "07:30 (weekdays)", Alarm{Hour: 7, Minute: 30, Repeat: Weekdays}.Describe())
	require.Equal(t, "23:00 (custom: mon,fri)",
		Alarm{Hour: 23, Repeat: Custom, Weekdays: MaskOf(time.Monday, time.Friday)}.Describe())
}

// TestClamp verifies the configuration clamps.
func TestClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, ClampSnoozeMinutes(0))
	require.Equal(t, 60, ClampSnoozeMinutes(90))
	require.Equal(t, 9, ClampSnoozeMinutes(9))
	require.Equal(t, 0, ClampSnoozeCount(-3))
	require.Equal(t, 10, ClampSnoozeCount(11))
	require.Equal(t, 4, ClampSnoozeCount(4))
}

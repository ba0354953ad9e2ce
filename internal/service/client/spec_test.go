package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// TestParseClock accepts HH:MM and rejects malformed or out-of-range input.
func TestParseClock(t *testing.T) {
	t.Parallel()

	hour, minute, err := ParseClock("07:05")
	require.NoError(t, err)
	require.Equal(t, 7, hour)
	require.Equal(t, 5, minute)

	_, _, err = ParseClock("0705")
	require.ErrorIs(t, err, errBadClock)

	_, _, err = ParseClock("aa:10")
	require.ErrorIs(t, err, errBadClock)

	_, _, err = ParseClock("24:00")
	require.ErrorIs(t, err, domain.ErrInvalidTime)
}

// TestParseSpec covers the repeat defaults and the implied custom mode.
func TestParseSpec(t *testing.T) {
	t.Parallel()

	spec, err := ParseSpec("6:30", "", "", "gym", "drums")
	require.NoError(t, err)
	require.Equal(t, domain.Spec{Hour: 6, Minute: 30, Repeat: domain.Once, Label: "gym", MusicName: "drums"}, spec)

	spec, err = ParseSpec("6:30", "weekends", "", "", "")
	require.NoError(t, err)
	require.Equal(t, domain.Weekends, spec.Repeat)

	spec, err = ParseSpec("6:30", "", "mon,thu", "", "")
	require.NoError(t, err)
	require.Equal(t, domain.Custom, spec.Repeat)
	require.Equal(t, domain.MaskOf(time.Monday, time.Thursday), spec.Weekdays)

	_, err = ParseSpec("6:30", "hourly", "", "", "")
	require.ErrorIs(t, err, domain.ErrInvalidRepeatMode)

	_, err = ParseSpec("6:30", "custom", "mon,funday", "", "")
	require.ErrorIs(t, err, domain.ErrInvalidWeekday)
}

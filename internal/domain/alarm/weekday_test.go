package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseWeekdays accepts short and long names with mixed separators.
func TestParseWeekdays(t *testing.T) {
	t.Parallel()

	mask, err := ParseWeekdays("mon, Wednesday;fri")
	require.NoError(t, err)
	require.Equal(t, MaskOf(time.Monday, time.Wednesday, time.Friday), mask)
	require.Equal(t, "mon,wed,fri", mask.String())

	mask, err = ParseWeekdays("")
	require.NoError(t, err)
	require.Equal(t, NoWeekdays, mask)
	require.Equal(t, "none", mask.String())

	_, err = ParseWeekdays("mon,funday")
	require.ErrorIs(t, err, ErrInvalidWeekday)
}

// TestWeekdayMaskDays lists days in Sunday-first order.
func TestWeekdayMaskDays(t *testing.T) {
	t.Parallel()

	require.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, Weekend.Days())
	require.Len(t, AllWeekdays.Days(), 7)
	require.Empty(t, NoWeekdays.Days())
}

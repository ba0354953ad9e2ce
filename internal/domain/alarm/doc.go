// Package alarm contains the core domain types of the alarm clock.
//
// It defines the Alarm value (wall-clock time, repeat mode, weekday mask,
// life-cycle status and snooze counters), the rules deriving a weekday mask
// from a repeat mode, and the formatting helpers shared by every transport.
package alarm

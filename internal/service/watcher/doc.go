// Package watcher polls the alarm server and reports alarms as they start ringing,
// get snoozed and fall silent. It stands in for the display and speaker of a
// clock that has no direct access to the scheduler.
package watcher

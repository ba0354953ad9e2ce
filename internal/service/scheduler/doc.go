// Package scheduler owns the alarm collection and drives its life cycle.
//
// A Manager validates and stores alarms, mirrors every mutation into an
// alarms.Repository, fires alarms when Evaluate observes their wall-clock
// minute and runs the snooze/stop state machine:
//
//	Disabled <-> Enabled        Enable
//	Enabled   -> Triggered      Evaluate at the alarm minute
//	Triggered -> Snoozed        Snooze under the ceiling
//	Triggered -> Enabled|Disabled  Stop, or Snooze at the ceiling
//	Snoozed   -> Triggered      Evaluate after the snooze deadline
//	Snoozed   -> Enabled|Disabled  Stop
//
// All state sits behind one mutex. Callbacks run after the mutex is released,
// in the order their transitions happened, so a callback may call back into the Manager.
package scheduler

// Package clock provides the time source consumed by the alarm scheduler:
// local wall-clock time for firing and a monotonic seconds counter for
// snooze deadlines and the re-fire guard.
package clock

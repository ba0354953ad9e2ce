// Package ticker drives the scheduler Evaluate tick from a cron schedule.
package ticker

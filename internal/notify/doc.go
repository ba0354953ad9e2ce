// Package notify fans alarm state changes out to external sinks.
//
// The scheduler hands every transition to a Dispatcher through its callback
// ports. The Dispatcher queues events and delivers them, in order, to each
// configured Publisher: the log, an MQTT broker and an HTTP webhook.
// Sink failures are logged and never reach the scheduler.
package notify

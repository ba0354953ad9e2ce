package notify

import (
	"context"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// LogSink writes every event to the structured log.
type LogSink struct{}

// Publish logs the event.
func (LogSink) Publish(ctx context.Context, event Event) error {
	logger.InfoKV(ctx, "Alarm event",
		"event_id", event.ID,
		"kind", event.Kind,
		"alarm_id", event.Alarm.ID,
		"time", event.Alarm.Time,
		"label", event.Alarm.Label,
		"music", event.Alarm.Music)

	return nil
}

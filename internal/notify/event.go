package notify

import (
	"time"

	"github.com/google/uuid"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Kind names the transition an event reports.
type Kind string

const (
	// KindTriggered is published when an alarm starts ringing.
	KindTriggered Kind = "triggered"
	// KindSnoozed is published when a ringing alarm is snoozed.
	KindSnoozed Kind = "snoozed"
	// KindStopped is published when a ringing alarm is stopped.
	KindStopped Kind = "stopped"
)

// AlarmPayload is the wire form of an alarm inside an event.
type AlarmPayload struct {
	ID             int    `json:"id"`
	Time           string `json:"time"`
	Repeat         string `json:"repeat"`
	Weekdays       string `json:"weekdays"`
	Label          string `json:"label,omitempty"`
	Music          string `json:"music,omitempty"`
	Status         string `json:"status"`
	SnoozeCount    int    `json:"snooze_count"`
	MaxSnoozeCount int    `json:"max_snooze_count"`
	SnoozeMinutes  int    `json:"snooze_minutes"`
}

// Event is one alarm transition.
type Event struct {
	ID    uuid.UUID    `json:"id"`
	Kind  Kind         `json:"kind"`
	At    time.Time    `json:"at"`
	Alarm AlarmPayload `json:"alarm"`
}

// NewEvent stamps a transition of the alarm with a fresh id.
func NewEvent(kind Kind, at time.Time, a domain.Alarm) Event {
	return Event{
		ID:    uuid.New(),
		Kind:  kind,
		At:    at,
		Alarm: PayloadOf(a),
	}
}

// PayloadOf converts an alarm snapshot to its wire form.
func PayloadOf(a domain.Alarm) AlarmPayload {
	return AlarmPayload{
		ID:             a.ID,
		Time:           domain.FormatTime(a.Hour, a.Minute),
		Repeat:         a.Repeat.String(),
		Weekdays:       a.Weekdays.String(),
		Label:          a.Label,
		Music:          a.MusicName,
		Status:         a.Status.String(),
		SnoozeCount:    a.SnoozeCount,
		MaxSnoozeCount: a.MaxSnoozeCount,
		SnoozeMinutes:  a.SnoozeMinutes,
	}
}

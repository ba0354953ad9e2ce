package alarms

import (
	"encoding/json"
	"fmt"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// record is the persisted form of an alarm. Runtime-only fields are never stored.
type record struct {
	ID            int    `json:"id"`
	Hour          int    `json:"hour"`
	Minute        int    `json:"minute"`
	Repeat        int    `json:"repeat"`
	Weekdays      int    `json:"weekdays"`
	Status        int    `json:"status"`
	Label         string `json:"label"`
	Music         string `json:"music"`
	SnoozeMinutes int    `json:"snooze_minutes"`
	MaxSnooze     int    `json:"max_snooze"`
}

// encodeRecord serializes the persistent fields of the alarm.
func encodeRecord(a domain.Alarm) (string, error) {
	data, err := json.Marshal(record{
		ID:            a.ID,
		Hour:          a.Hour,
		Minute:        a.Minute,
		Repeat:        int(a.Repeat),
		Weekdays:      int(a.Weekdays),
		Status:        int(a.Status),
		Label:         a.Label,
		Music:         a.MusicName,
		SnoozeMinutes: a.SnoozeMinutes,
		MaxSnooze:     a.MaxSnoozeCount,
	})
	if err != nil {
		return "", fmt.Errorf("encode alarm %d: %w", a.ID, err)
	}

	return string(data), nil
}

// decodeRecord parses a stored record. Missing snooze fields fall back to the domain defaults,
// ringing statuses are downgraded to Enabled and runtime counters start at zero.
func decodeRecord(data string) (domain.Alarm, error) {
	rec := record{
		SnoozeMinutes: domain.DefaultSnoozeMinutes,
		MaxSnooze:     domain.DefaultMaxSnoozeCount,
	}

	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return domain.Alarm{}, fmt.Errorf("decode alarm: %w", err)
	}

	if err := domain.ValidateTime(rec.Hour, rec.Minute); err != nil {
		return domain.Alarm{}, err
	}

	repeat := domain.RepeatMode(rec.Repeat)
	if !repeat.Valid() {
		return domain.Alarm{}, fmt.Errorf("%w: %d", domain.ErrInvalidRepeatMode, rec.Repeat)
	}

	status := domain.Status(rec.Status)
	if status != domain.Disabled {
		status = domain.Enabled
	}

	return domain.Alarm{
		ID:             rec.ID,
		Hour:           rec.Hour,
		Minute:         rec.Minute,
		Repeat:         repeat,
		Weekdays:       repeat.Weekdays(domain.WeekdayMask(rec.Weekdays)),
		Label:          rec.Label,
		MusicName:      rec.Music,
		Status:         status,
		SnoozeMinutes:  domain.ClampSnoozeMinutes(rec.SnoozeMinutes),
		MaxSnoozeCount: domain.ClampSnoozeCount(rec.MaxSnooze),
	}, nil
}

package alarm

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// NextAlarmInfo is the decoded NextAlarm response.
type NextAlarmInfo struct {
	// Found is false when no enabled alarm fires within a week.
	Found bool
	// Description is the human-readable summary.
	Description string
	// DistanceMinutes is the time until the alarm fires.
	DistanceMinutes int
	// Alarm is the soonest alarm when Found is true.
	Alarm domain.Alarm
}

// AddAlarm creates an alarm and returns its id.
func (c *AlarmServiceClient) AddAlarm(ctx context.Context, spec domain.Spec) (int, error) {
	resp, err := c.Call(ctx, AddAlarmMethod, SpecToStruct(spec))
	if err != nil {
		return 0, err
	}

	return requiredInt(resp, fieldID)
}

// ModifyAlarm replaces the user-editable fields of an alarm.
func (c *AlarmServiceClient) ModifyAlarm(ctx context.Context, id int, spec domain.Spec) (bool, error) {
	req := SpecToStruct(spec)
	req.Fields[fieldID] = structpb.NewNumberValue(float64(id))

	return c.callOK(ctx, ModifyAlarmMethod, req)
}

// RemoveAlarm deletes an alarm.
func (c *AlarmServiceClient) RemoveAlarm(ctx context.Context, id int) (bool, error) {
	return c.callOK(ctx, RemoveAlarmMethod, IDRequest(id))
}

// EnableAlarm enables or disables an alarm and returns its resulting status.
// A ringing alarm is found but keeps its status.
func (c *AlarmServiceClient) EnableAlarm(ctx context.Context, id int, enabled bool) (domain.Status, bool, error) {
	req := IDRequest(id)
	req.Fields[fieldEnabled] = structpb.NewBoolValue(enabled)

	resp, err := c.Call(ctx, EnableAlarmMethod, req)
	if err != nil || !boolField(resp, fieldOK) {
		return domain.Enabled, false, err
	}

	status, err := domain.ParseStatus(stringField(resp, fieldStatus))
	if err != nil {
		return domain.Enabled, false, err
	}

	return status, true, nil
}

// GetAlarm fetches one alarm.
func (c *AlarmServiceClient) GetAlarm(ctx context.Context, id int) (domain.Alarm, error) {
	resp, err := c.Call(ctx, GetAlarmMethod, IDRequest(id))
	if err != nil {
		return domain.Alarm{}, err
	}

	return AlarmFromStruct(resp)
}

// ListAlarms returns every alarm and the next-alarm description.
func (c *AlarmServiceClient) ListAlarms(ctx context.Context) ([]domain.Alarm, string, error) {
	resp, err := c.Call(ctx, ListAlarmsMethod, nil)
	if err != nil {
		return nil, "", err
	}

	alarms, err := AlarmsFromStruct(resp)
	if err != nil {
		return nil, "", err
	}

	return alarms, stringField(resp, fieldNext), nil
}

// SnoozeAlarm snoozes the alarm, or the first ringing one when id is -1.
// It returns the id acted upon and whether the alarm is now snoozed.
func (c *AlarmServiceClient) SnoozeAlarm(ctx context.Context, id int) (int, bool, error) {
	return c.callTarget(ctx, SnoozeAlarmMethod, id)
}

// StopAlarm stops the alarm, or the first ringing one when id is -1.
func (c *AlarmServiceClient) StopAlarm(ctx context.Context, id int) (int, bool, error) {
	return c.callTarget(ctx, StopAlarmMethod, id)
}

// StopAllAlarms stops every ringing alarm and returns how many were stopped.
func (c *AlarmServiceClient) StopAllAlarms(ctx context.Context) (int, error) {
	resp, err := c.Call(ctx, StopAllAlarmsMethod, nil)
	if err != nil {
		return 0, err
	}

	stopped, _, err := intField(resp, fieldStopped)

	return stopped, err
}

// NextAlarm reports the soonest enabled alarm.
func (c *AlarmServiceClient) NextAlarm(ctx context.Context) (NextAlarmInfo, error) {
	resp, err := c.Call(ctx, NextAlarmMethod, nil)
	if err != nil {
		return NextAlarmInfo{}, err
	}

	info := NextAlarmInfo{
		Found:       boolField(resp, fieldFound),
		Description: stringField(resp, fieldDescription),
	}

	if !info.Found {
		return info, nil
	}

	if info.DistanceMinutes, _, err = intField(resp, fieldDistance); err != nil {
		return NextAlarmInfo{}, err
	}

	if info.Alarm, err = AlarmFromStruct(resp.GetFields()[fieldAlarm].GetStructValue()); err != nil {
		return NextAlarmInfo{}, err
	}

	return info, nil
}

func (c *AlarmServiceClient) callOK(ctx context.Context, method string, req *structpb.Struct) (bool, error) {
	resp, err := c.Call(ctx, method, req)
	if err != nil {
		return false, err
	}

	return boolField(resp, fieldOK), nil
}

func (c *AlarmServiceClient) callTarget(ctx context.Context, method string, id int) (int, bool, error) {
	resp, err := c.Call(ctx, method, IDRequest(id))
	if err != nil {
		return 0, false, err
	}

	target, _, err := intField(resp, fieldID)
	if err != nil {
		return 0, false, err
	}

	return target, boolField(resp, fieldOK), nil
}

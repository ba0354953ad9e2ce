package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// FirstRinging targets the first ringing alarm in Snooze and Stop.
const FirstRinging = -1

// errAlarmNotFound is returned when the server does not know the alarm.
var errAlarmNotFound = errors.New("alarm not found")

// Add creates an alarm and prints its id.
func Add(spec domain.Spec) Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		id, err := client.AddAlarm(ctx, spec)
		if err != nil {
			return err
		}

		a, err := client.GetAlarm(ctx, id)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(out, "Alarm ID %d set: %s\n", id, a.Describe())

		return err
	}
}

// Modify replaces the time, repeat mode, label and music of an alarm.
func Modify(id int, spec domain.Spec) Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		ok, err := client.ModifyAlarm(ctx, id, spec)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %d", errAlarmNotFound, id)
		}

		_, err = fmt.Fprintf(out, "Alarm ID %d updated\n", id)

		return err
	}
}

// Remove deletes an alarm.
func Remove(id int) Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		ok, err := client.RemoveAlarm(ctx, id)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %d", errAlarmNotFound, id)
		}

		_, err = fmt.Fprintf(out, "Removed alarm ID %d\n", id)

		return err
	}
}

// Enable enables or disables an alarm.
func Enable(id int, enabled bool) Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		state, ok, err := client.EnableAlarm(ctx, id, enabled)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %d", errAlarmNotFound, id)
		}

		if state.Ringing() {
			_, err = fmt.Fprintf(out, "Alarm ID %d is %s, stop it first\n", id, state)

			return err
		}

		_, err = fmt.Fprintf(out, "Alarm ID %d %s\n", id, state)

		return err
	}
}

// Get prints the details of one alarm.
func Get(id int) Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		a, err := client.GetAlarm(ctx, id)
		if err != nil {
			return err
		}

		_, err = io.WriteString(out, RenderAlarm(a))

		return err
	}
}

// List prints every alarm as a table followed by the next-alarm description.
func List() Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		alarms, next, err := client.ListAlarms(ctx)
		if err != nil {
			return err
		}

		_, err = io.WriteString(out, RenderList(alarms, next))

		return err
	}
}

// Snooze snoozes the alarm, or the first ringing one for FirstRinging.
func Snooze(id int) Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		target, ok, err := client.SnoozeAlarm(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case target == 0:
			_, err = fmt.Fprintln(out, "No ringing alarm")
		case !ok:
			_, err = fmt.Fprintf(out, "Alarm ID %d is not ringing or reached its snooze limit\n", target)
		default:
			_, err = fmt.Fprintf(out, "Alarm ID %d snoozed\n", target)
		}

		return err
	}
}

// Stop silences the alarm, or the first ringing one for FirstRinging.
func Stop(id int) Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		target, ok, err := client.StopAlarm(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case target == 0:
			_, err = fmt.Fprintln(out, "No ringing alarm")
		case !ok:
			_, err = fmt.Fprintf(out, "Alarm ID %d is not ringing\n", target)
		default:
			_, err = fmt.Fprintf(out, "Alarm ID %d stopped\n", target)
		}

		return err
	}
}

// StopAll silences every ringing alarm.
func StopAll() Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		stopped, err := client.StopAllAlarms(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(out, "Stopped %d alarm(s)\n", stopped)

		return err
	}
}

// Next prints the next-alarm description.
func Next() Action {
	return func(ctx context.Context, client API, out io.Writer) error {
		info, err := client.NextAlarm(ctx)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, info.Description)

		return err
	}
}

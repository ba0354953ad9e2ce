package alarm

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Field names shared by requests and responses.
const (
	fieldID             = "id"
	fieldHour           = "hour"
	fieldMinute         = "minute"
	fieldRepeat         = "repeat"
	fieldWeekdays       = "weekdays"
	fieldLabel          = "label"
	fieldMusic          = "music"
	fieldStatus         = "status"
	fieldSnoozeCount    = "snooze_count"
	fieldMaxSnoozeCount = "max_snooze_count"
	fieldSnoozeMinutes  = "snooze_minutes"
	fieldDescription    = "description"
	fieldEnabled        = "enabled"
	fieldOK             = "ok"
	fieldAlarms         = "alarms"
	fieldNext           = "next"
	fieldFound          = "found"
	fieldDistance       = "distance_minutes"
	fieldAlarm          = "alarm"
	fieldStopped        = "stopped"
)

const (
	// firstActiveID in a snooze or stop request selects the first ringing alarm.
	firstActiveID = -1

	weekdaysDescription  = "weekday names such as mon,wed,fri or a bit mask"
	repeatModeDescriptor = "once, daily, weekdays, weekends or custom"
)

var (
	// errMissingField is returned when a required field is absent.
	errMissingField = errors.New("missing field")
	// errInvalidField is returned when a field has the wrong type or value.
	errInvalidField = errors.New("invalid field")
)

// SpecToStruct encodes the user-editable alarm fields as a request payload.
func SpecToStruct(spec domain.Spec) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldHour:     structpb.NewNumberValue(float64(spec.Hour)),
		fieldMinute:   structpb.NewNumberValue(float64(spec.Minute)),
		fieldRepeat:   structpb.NewStringValue(spec.Repeat.String()),
		fieldWeekdays: structpb.NewStringValue(spec.Weekdays.String()),
		fieldLabel:    structpb.NewStringValue(spec.Label),
		fieldMusic:    structpb.NewStringValue(spec.MusicName),
	}}
}

// SpecFromStruct decodes an Add or Modify request. Hour and minute are required;
// the repeat mode defaults to once.
func SpecFromStruct(s *structpb.Struct) (domain.Spec, error) {
	hour, err := requiredInt(s, fieldHour)
	if err != nil {
		return domain.Spec{}, err
	}

	minute, err := requiredInt(s, fieldMinute)
	if err != nil {
		return domain.Spec{}, err
	}

	repeat, err := repeatField(s)
	if err != nil {
		return domain.Spec{}, err
	}

	weekdays, err := weekdaysField(s)
	if err != nil {
		return domain.Spec{}, err
	}

	return domain.Spec{
		Hour:      hour,
		Minute:    minute,
		Repeat:    repeat,
		Weekdays:  weekdays,
		Label:     stringField(s, fieldLabel),
		MusicName: stringField(s, fieldMusic),
	}, nil
}

// AlarmToStruct encodes an alarm snapshot.
func AlarmToStruct(a domain.Alarm) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldID:             structpb.NewNumberValue(float64(a.ID)),
		fieldHour:           structpb.NewNumberValue(float64(a.Hour)),
		fieldMinute:         structpb.NewNumberValue(float64(a.Minute)),
		fieldRepeat:         structpb.NewStringValue(a.Repeat.String()),
		fieldWeekdays:       structpb.NewStringValue(a.Weekdays.String()),
		fieldLabel:          structpb.NewStringValue(a.Label),
		fieldMusic:          structpb.NewStringValue(a.MusicName),
		fieldStatus:         structpb.NewStringValue(a.Status.String()),
		fieldSnoozeCount:    structpb.NewNumberValue(float64(a.SnoozeCount)),
		fieldMaxSnoozeCount: structpb.NewNumberValue(float64(a.MaxSnoozeCount)),
		fieldSnoozeMinutes:  structpb.NewNumberValue(float64(a.SnoozeMinutes)),
		fieldDescription:    structpb.NewStringValue(a.Describe()),
	}}
}

// AlarmFromStruct decodes an alarm snapshot produced by AlarmToStruct.
func AlarmFromStruct(s *structpb.Struct) (domain.Alarm, error) {
	id, err := requiredInt(s, fieldID)
	if err != nil {
		return domain.Alarm{}, err
	}

	spec, err := SpecFromStruct(s)
	if err != nil {
		return domain.Alarm{}, err
	}

	status, err := domain.ParseStatus(stringField(s, fieldStatus))
	if err != nil {
		return domain.Alarm{}, err
	}

	a := domain.Alarm{ID: id, Status: status}
	a.Apply(spec)
	// Apply derives fixed masks; keep what the server reported.
	a.Weekdays = spec.Weekdays

	if a.SnoozeCount, _, err = intField(s, fieldSnoozeCount); err != nil {
		return domain.Alarm{}, err
	}

	if a.MaxSnoozeCount, _, err = intField(s, fieldMaxSnoozeCount); err != nil {
		return domain.Alarm{}, err
	}

	if a.SnoozeMinutes, _, err = intField(s, fieldSnoozeMinutes); err != nil {
		return domain.Alarm{}, err
	}

	return a, nil
}

// AlarmsFromStruct decodes the "alarms" list of a ListAlarms response.
func AlarmsFromStruct(s *structpb.Struct) ([]domain.Alarm, error) {
	list := s.GetFields()[fieldAlarms].GetListValue()
	result := make([]domain.Alarm, 0, len(list.GetValues()))

	for _, v := range list.GetValues() {
		a, err := AlarmFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}

		result = append(result, a)
	}

	return result, nil
}

// IDRequest builds a request carrying only an alarm id.
func IDRequest(id int) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldID: structpb.NewNumberValue(float64(id)),
	}}
}

func boolField(s *structpb.Struct, name string) bool {
	return s.GetFields()[name].GetBoolValue()
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// intField reads an integral number. Present reports whether the field exists.
func intField(s *structpb.Struct, name string) (int, bool, error) {
	v, ok := s.GetFields()[name]
	if !ok || isNull(v) {
		return 0, false, nil
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, true, fmt.Errorf("%w: %s must be an integer", errInvalidField, name)
		}

		return int(n), true, nil
	case *structpb.Value_StringValue:
		n, err := strconv.Atoi(kind.StringValue)
		if err != nil {
			return 0, true, fmt.Errorf("%w: %s must be an integer", errInvalidField, name)
		}

		return n, true, nil
	default:
		return 0, true, fmt.Errorf("%w: %s must be an integer", errInvalidField, name)
	}
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)

	return ok
}

func requiredInt(s *structpb.Struct, name string) (int, error) {
	v, ok, err := intField(s, name)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingField, name)
	}

	return v, nil
}

func repeatField(s *structpb.Struct) (domain.RepeatMode, error) {
	v, ok := s.GetFields()[fieldRepeat]
	if !ok || isNull(v) {
		return domain.Once, nil
	}

	var raw string

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		raw = kind.StringValue
	case *structpb.Value_NumberValue:
		raw = strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return domain.Once, fmt.Errorf("%w: %s must be %s", errInvalidField, fieldRepeat, repeatModeDescriptor)
	}

	mode, err := domain.ParseRepeatMode(raw)
	if err != nil {
		return domain.Once, err
	}

	return mode, nil
}

func weekdaysField(s *structpb.Struct) (domain.WeekdayMask, error) {
	v, ok := s.GetFields()[fieldWeekdays]
	if !ok || isNull(v) {
		return domain.NoWeekdays, nil
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		if kind.StringValue == domain.NoWeekdays.String() {
			return domain.NoWeekdays, nil
		}

		return domain.ParseWeekdays(kind.StringValue)
	case *structpb.Value_NumberValue:
		mask := kind.NumberValue
		if mask != math.Trunc(mask) || mask < 0 || mask > float64(domain.AllWeekdays) {
			return domain.NoWeekdays, fmt.Errorf("%w: %s must be %s", errInvalidField, fieldWeekdays, weekdaysDescription)
		}

		return domain.WeekdayMask(mask), nil
	default:
		return domain.NoWeekdays, fmt.Errorf("%w: %s must be %s", errInvalidField, fieldWeekdays, weekdaysDescription)
	}
}

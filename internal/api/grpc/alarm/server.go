package alarm

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/scheduler"
)

// ActorMetadataKey carries the "user@host" of the caller for the audit log.
const ActorMetadataKey = "x-alarm-actor"

// Service abstracts the scheduler operations the transport layer depends on.
type Service interface {
	Add(ctx context.Context, spec domain.Spec) (int, error)
	Modify(ctx context.Context, id int, spec domain.Spec) (bool, error)
	Remove(ctx context.Context, id int) bool
	Enable(ctx context.Context, id int, enabled bool) bool
	Get(id int) (domain.Alarm, bool)
	All() []domain.Alarm
	Active() []domain.Alarm
	Snooze(ctx context.Context, id int) bool
	Stop(ctx context.Context, id int) bool
	StopAll(ctx context.Context) int
	NextAlarm() (domain.Alarm, int, bool)
	NextAlarmDescription() string
}

// Server implements the AlarmService gRPC API.
type Server struct {
	// service provides the scheduler operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// AddAlarm creates an alarm and returns its id.
func (s *Server) AddAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActor(ctx)

	spec, err := SpecFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	id, err := s.service.Add(ctx, spec)
	if err != nil {
		return nil, toStatus(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldID: structpb.NewNumberValue(float64(id)),
	}}, nil
}

// ModifyAlarm replaces the user-editable fields of an alarm.
func (s *Server) ModifyAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActor(ctx)

	id, err := requiredInt(req, fieldID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	spec, err := SpecFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ok, err := s.service.Modify(ctx, id, spec)
	if err != nil {
		return nil, toStatus(err)
	}

	return okResponse(ok), nil
}

// RemoveAlarm deletes an alarm.
func (s *Server) RemoveAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActor(ctx)

	id, err := requiredInt(req, fieldID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	return okResponse(s.service.Remove(ctx, id)), nil
}

// EnableAlarm enables or disables an alarm. A missing "enabled" field enables it.
// The response carries the resulting status, a ringing alarm keeps its own.
func (s *Server) EnableAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActor(ctx)

	id, err := requiredInt(req, fieldID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	enabled := true
	if v, ok := req.GetFields()[fieldEnabled]; ok {
		enabled = v.GetBoolValue()
	}

	if !s.service.Enable(ctx, id, enabled) {
		return okResponse(false), nil
	}

	resp := okResponse(true)
	if a, ok := s.service.Get(id); ok {
		resp.Fields[fieldStatus] = structpb.NewStringValue(a.Status.String())
	}

	return resp, nil
}

// GetAlarm returns one alarm or NotFound.
func (s *Server) GetAlarm(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredInt(req, fieldID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	a, ok := s.service.Get(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "alarm %d not found", id)
	}

	return AlarmToStruct(a), nil
}

// ListAlarms returns every alarm and the next-alarm description.
func (s *Server) ListAlarms(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	all := s.service.All()
	values := make([]*structpb.Value, 0, len(all))

	for _, a := range all {
		values = append(values, structpb.NewStructValue(AlarmToStruct(a)))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldAlarms: structpb.NewListValue(&structpb.ListValue{Values: values}),
		fieldNext:   structpb.NewStringValue(s.service.NextAlarmDescription()),
	}}, nil
}

// SnoozeAlarm snoozes an alarm. Without an id, or with -1, the first ringing alarm is used.
func (s *Server) SnoozeAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActor(ctx)

	id, found, err := s.targetID(req)
	if err != nil {
		return nil, err
	}

	if !found {
		return okResponse(false), nil
	}

	resp := okResponse(s.service.Snooze(ctx, id))
	resp.Fields[fieldID] = structpb.NewNumberValue(float64(id))

	return resp, nil
}

// StopAlarm stops an alarm. Without an id, or with -1, the first ringing alarm is used.
func (s *Server) StopAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActor(ctx)

	id, found, err := s.targetID(req)
	if err != nil {
		return nil, err
	}

	if !found {
		return okResponse(false), nil
	}

	resp := okResponse(s.service.Stop(ctx, id))
	resp.Fields[fieldID] = structpb.NewNumberValue(float64(id))

	return resp, nil
}

// StopAllAlarms stops every ringing alarm.
func (s *Server) StopAllAlarms(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx = withActor(ctx)

	stopped := s.service.StopAll(ctx)

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldStopped: structpb.NewNumberValue(float64(stopped)),
	}}, nil
}

// NextAlarm reports the soonest enabled alarm.
func (s *Server) NextAlarm(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	resp := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldDescription: structpb.NewStringValue(s.service.NextAlarmDescription()),
	}}

	a, distance, found := s.service.NextAlarm()

	resp.Fields[fieldFound] = structpb.NewBoolValue(found)

	if found {
		resp.Fields[fieldDistance] = structpb.NewNumberValue(float64(distance))
		resp.Fields[fieldAlarm] = structpb.NewStructValue(AlarmToStruct(a))
	}

	return resp, nil
}

// targetID resolves the id of a snooze or stop request.
func (s *Server) targetID(req *structpb.Struct) (int, bool, error) {
	id, present, err := intField(req, fieldID)
	if err != nil {
		return 0, false, status.Error(codes.InvalidArgument, err.Error())
	}

	if present && id != firstActiveID {
		return id, true, nil
	}

	active := s.service.Active()
	if len(active) == 0 {
		return 0, false, nil
	}

	return active[0].ID, true, nil
}

func okResponse(ok bool) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldOK: structpb.NewBoolValue(ok),
	}}
}

// toStatus maps scheduler errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidRepeatMode),
		errors.Is(err, domain.ErrInvalidWeekday):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, scheduler.ErrNotInitialized):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// withActor scopes the logger with the caller identity sent in the metadata.
func withActor(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}

	if actors := md.Get(ActorMetadataKey); len(actors) > 0 {
		return logger.WithKV(ctx, "actor", actors[0])
	}

	return ctx
}

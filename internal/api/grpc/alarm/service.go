package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alarmclock.v1.AlarmService"

// Method names of the AlarmService.
const (
	AddAlarmMethod      = "AddAlarm"
	ModifyAlarmMethod   = "ModifyAlarm"
	RemoveAlarmMethod   = "RemoveAlarm"
	EnableAlarmMethod   = "EnableAlarm"
	GetAlarmMethod      = "GetAlarm"
	ListAlarmsMethod    = "ListAlarms"
	SnoozeAlarmMethod   = "SnoozeAlarm"
	StopAlarmMethod     = "StopAlarm"
	StopAllAlarmsMethod = "StopAllAlarms"
	NextAlarmMethod     = "NextAlarm"
)

// FullMethod returns "/<service>/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AlarmServiceServer is the server API of the AlarmService.
type AlarmServiceServer interface {
	AddAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ModifyAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	EnableAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListAlarms(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SnoozeAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StopAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StopAllAlarms(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	NextAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// unaryMethod is a method expression on AlarmServiceServer.
type unaryMethod func(AlarmServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes the AlarmService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Mirrors generated service descriptors.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(AddAlarmMethod, AlarmServiceServer.AddAlarm),
		methodDesc(ModifyAlarmMethod, AlarmServiceServer.ModifyAlarm),
		methodDesc(RemoveAlarmMethod, AlarmServiceServer.RemoveAlarm),
		methodDesc(EnableAlarmMethod, AlarmServiceServer.EnableAlarm),
		methodDesc(GetAlarmMethod, AlarmServiceServer.GetAlarm),
		methodDesc(ListAlarmsMethod, AlarmServiceServer.ListAlarms),
		methodDesc(SnoozeAlarmMethod, AlarmServiceServer.SnoozeAlarm),
		methodDesc(StopAlarmMethod, AlarmServiceServer.StopAlarm),
		methodDesc(StopAllAlarmsMethod, AlarmServiceServer.StopAllAlarms),
		methodDesc(NextAlarmMethod, AlarmServiceServer.NextAlarm),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmclock/v1/alarm.proto",
}

// RegisterAlarmServiceServer registers the implementation on the gRPC server.
func RegisterAlarmServiceServer(registrar grpc.ServiceRegistrar, srv AlarmServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// methodDesc builds a unary method descriptor that decodes a Struct and honours interceptors.
func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(
			srv any,
			ctx context.Context,
			dec func(any) error,
			interceptor grpc.UnaryServerInterceptor,
		) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			server, _ := srv.(AlarmServiceServer)

			if interceptor == nil {
				return call(server, ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}

			handler := func(ctx context.Context, req any) (any, error) {
				request, _ := req.(*structpb.Struct)

				return call(server, ctx, request)
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

// AlarmServiceClient is the client API of the AlarmService.
type AlarmServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAlarmServiceClient creates a client on top of the connection.
func NewAlarmServiceClient(cc grpc.ClientConnInterface) *AlarmServiceClient {
	return &AlarmServiceClient{cc: cc}
}

// Call invokes the named method with the request.
func (c *AlarmServiceClient) Call(
	ctx context.Context,
	method string,
	req *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	if req == nil {
		req = new(structpb.Struct)
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

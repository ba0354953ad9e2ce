package alarm

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-clock/internal/clock"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/repository/alarms"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
	"github.com/oshokin/alarm-clock/internal/service/scheduler"
)

// monday0700 is Monday, 12 October 2026, 07:00:00.
//
//nolint:gochecknoglobals // Fixed test instant.
var monday0700 = time.Date(2026, time.October, 12, 7, 0, 0, 0, time.UTC)

// newTestClient serves a fresh scheduler over an in-memory gRPC connection.
func newTestClient(t *testing.T) (*AlarmServiceClient, *scheduler.Manager, *clock.Manual) {
	t.Helper()

	clk := clock.NewManual(monday0700, 1)
	manager := scheduler.New(alarms.NewKVRepository(kv.NewMemoryStore()), clk)
	require.NoError(t, manager.Initialize(context.Background()))

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	RegisterAlarmServiceServer(server, NewServer(manager))

	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()

		server.Stop()
	})

	return NewAlarmServiceClient(conn), manager, clk
}

// TestAlarmService_CRUD adds, reads, modifies, toggles and removes alarms over gRPC.
func TestAlarmService_CRUD(t *testing.T) {
	t.Parallel()

	ctx := metadata.AppendToOutgoingContext(context.Background(), ActorMetadataKey, "o.shokin@desk")
	client, _, _ := newTestClient(t)

	id, err := client.AddAlarm(ctx, domain.Spec{
		Hour:      7,
		Minute:    45,
		Repeat:    domain.Custom,
		Weekdays:  domain.MaskOf(time.Monday, time.Thursday),
		Label:     "gym",
		MusicName: "drums",
	})
	require.NoError(t, err)
	require.Equal(t, 1, id)

	got, err := client.GetAlarm(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 7, got.Hour)
	require.Equal(t, 45, got.Minute)
	require.Equal(t, domain.Custom, got.Repeat)
	require.Equal(t, domain.MaskOf(time.Monday, time.Thursday), got.Weekdays)
	require.Equal(t, "gym", got.Label)
	require.Equal(t, "drums", got.MusicName)
	require.Equal(t, domain.Enabled, got.Status)
	require.Equal(t, domain.DefaultSnoozeMinutes, got.SnoozeMinutes)

	ok, err := client.ModifyAlarm(ctx, id, domain.Spec{Hour: 8, Minute: 0, Repeat: domain.Weekends})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.ModifyAlarm(ctx, 99, domain.Spec{Hour: 8})
	require.NoError(t, err)
	require.False(t, ok)

	state, ok, err := client.EnableAlarm(ctx, id, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.Disabled, state)

	_, ok, err = client.EnableAlarm(ctx, 99, true)
	require.NoError(t, err)
	require.False(t, ok)

	list, next, err := client.ListAlarms(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, domain.Disabled, list[0].Status)
	require.Equal(t, domain.Weekend, list[0].Weekdays)
	require.Equal(t, scheduler.NoActiveAlarms, next)

	ok, err = client.RemoveAlarm(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = client.GetAlarm(ctx, id)
	require.Equal(t, codes.NotFound, status.Code(err))
}

// TestAlarmService_Validation maps bad input to InvalidArgument.
func TestAlarmService_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, manager, _ := newTestClient(t)

	_, err := client.AddAlarm(ctx, domain.Spec{Hour: 24, Minute: 0})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Call(ctx, AddAlarmMethod, &structpb.Struct{Fields: map[string]*structpb.Value{
		"hour": structpb.NewNumberValue(7),
	}})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Call(ctx, AddAlarmMethod, &structpb.Struct{Fields: map[string]*structpb.Value{
		"hour":   structpb.NewNumberValue(7),
		"minute": structpb.NewNumberValue(0),
		"repeat": structpb.NewStringValue("hourly"),
	}})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Call(ctx, AddAlarmMethod, &structpb.Struct{Fields: map[string]*structpb.Value{
		"hour":   structpb.NewNumberValue(7.5),
		"minute": structpb.NewNumberValue(0),
	}})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Call(ctx, RemoveAlarmMethod, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	require.Empty(t, manager.All())
}

// TestAlarmService_RingingFlow snoozes and stops the first ringing alarm without an explicit id.
func TestAlarmService_RingingFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, manager, clk := newTestClient(t)

	id, err := client.AddAlarm(ctx, domain.Spec{Hour: 7, Minute: 1, Repeat: domain.Daily, Label: "wake"})
	require.NoError(t, err)

	// Nothing rings yet.
	target, ok, err := client.SnoozeAlarm(ctx, -1)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, target)

	info, err := client.NextAlarm(ctx)
	require.NoError(t, err)
	require.True(t, info.Found)
	require.Equal(t, 1, info.DistanceMinutes)
	require.Equal(t, id, info.Alarm.ID)
	require.Equal(t, "Next alarm: 07:01 (in 1m) - wake", info.Description)

	clk.Advance(time.Minute)
	manager.Evaluate(ctx)

	target, ok, err = client.SnoozeAlarm(ctx, -1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, target)

	got, err := client.GetAlarm(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.Snoozed, got.Status)
	require.Equal(t, 1, got.SnoozeCount)

	target, ok, err = client.StopAlarm(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id, target)

	stopped, err := client.StopAllAlarms(ctx)
	require.NoError(t, err)
	require.Zero(t, stopped)
}

// TestAlarmService_NotInitialized reports FailedPrecondition after the manager is closed.
func TestAlarmService_NotInitialized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, manager, _ := newTestClient(t)

	require.NoError(t, manager.Close(ctx))

	_, err := client.AddAlarm(ctx, domain.Spec{Hour: 7})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	info, err := client.NextAlarm(ctx)
	require.NoError(t, err)
	require.False(t, info.Found)
	require.Equal(t, scheduler.NotInitialized, info.Description)
}

// TestInterceptorSeesFullMethod checks that unary interceptors receive the full method name.
func TestInterceptorSeesFullMethod(t *testing.T) {
	t.Parallel()

	var seen string

	interceptor := func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		seen = info.FullMethod

		return handler(ctx, req)
	}

	desc := ServiceDesc.Methods[0]
	server := NewServer(scheduler.New(alarms.NewKVRepository(kv.NewMemoryStore()), clock.NewManual(monday0700, 1)))

	dec := func(v any) error {
		in, _ := v.(*structpb.Struct)
		in.Fields = SpecToStruct(domain.Spec{Hour: 7}).GetFields()

		return nil
	}

	_, err := desc.Handler(server, context.Background(), dec, interceptor)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
	require.Equal(t, "/alarmclock.v1.AlarmService/AddAlarm", seen)
}

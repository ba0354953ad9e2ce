package mcp

import (
	"context"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

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

// connect starts the tool server over in-memory transports and returns a client session.
func connect(t *testing.T, service Service) *sdk.ClientSession {
	t.Helper()

	ctx := context.Background()
	serverTransport, clientTransport := sdk.NewInMemoryTransports()

	ss, err := NewServer(service, "test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "alarm-clock-test", Version: "test"}, nil)

	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

func newManager(t *testing.T) (*scheduler.Manager, *clock.Manual) {
	t.Helper()

	clk := clock.NewManual(monday0700.Add(-time.Hour), 1)
	m := scheduler.New(alarms.NewKVRepository(kv.NewMemoryStore()), clk)
	require.NoError(t, m.Initialize(context.Background()))

	return m, clk
}

// call invokes a tool and returns its text and error flag.
func call(t *testing.T, cs *sdk.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}

	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	content, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok)

	return content.Text, res.IsError
}

// TestTools_ListAndAdd covers the empty list, add and the list format.
func TestTools_ListAndAdd(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	cs := connect(t, m)

	out, isErr := call(t, cs, ToolList, nil)
	require.False(t, isErr)
	require.Equal(t, "No alarms set", out)

	out, isErr = call(t, cs, ToolAdd, map[string]any{
		"hour": 7, "minute": 0, "repeat_mode": 2, "label": "work", "music_name": "rain",
	})
	require.False(t, isErr)
	require.Equal(t, "Alarm ID 1 set: 07:00 - work (music: rain) (weekdays)", out)

	out, isErr = call(t, cs, ToolAdd, map[string]any{
		"hour": 9, "minute": 30, "repeat_mode": 4, "weekdays": "sat,sun",
	})
	require.False(t, isErr)
	require.Equal(t, "Alarm ID 2 set: 09:30 (custom)", out)

	out, _ = call(t, cs, ToolList, nil)
	require.Equal(t, "Alarms:\n"+
		"ID 1: 07:00 (weekdays) - work [enabled] (music: rain)\n"+
		"ID 2: 09:30 (custom: sun,sat) [enabled]\n"+
		"\nNext alarm: 07:00 (in 1h 0m) - work", out)

	out, _ = call(t, cs, ToolNext, nil)
	require.Equal(t, "Next alarm: 07:00 (in 1h 0m) - work", out)
}

// TestTools_AddInvalid reports validation failures as tool errors.
func TestTools_AddInvalid(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	cs := connect(t, m)

	out, isErr := call(t, cs, ToolAdd, map[string]any{"hour": 25, "minute": 0})
	require.True(t, isErr)
	require.Contains(t, out, "invalid alarm time")

	_, isErr = call(t, cs, ToolAdd, map[string]any{"hour": 7, "minute": 0, "repeat_mode": 4, "weekdays": "funday"})
	require.True(t, isErr)
	require.Empty(t, m.All())
}

// TestTools_RemoveAndToggle covers found and missing ids.
func TestTools_RemoveAndToggle(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	cs := connect(t, m)

	id, err := m.Add(context.Background(), domain.Spec{Hour: 6, Minute: 15})
	require.NoError(t, err)

	out, _ := call(t, cs, ToolToggle, map[string]any{"alarm_id": id, "enabled": false})
	require.Equal(t, "Alarm ID 1 disabled", out)

	a, _ := m.Get(id)
	require.Equal(t, domain.Disabled, a.Status)

	out, _ = call(t, cs, ToolToggle, map[string]any{"alarm_id": id})
	require.Equal(t, "Alarm ID 1 enabled", out)

	out, _ = call(t, cs, ToolToggle, map[string]any{"alarm_id": 42, "enabled": true})
	require.Equal(t, "Alarm ID 42 not found", out)

	ringing, err := m.Add(context.Background(), domain.Spec{Hour: 6, Minute: 0})
	require.NoError(t, err)

	m.Evaluate(context.Background())

	out, _ = call(t, cs, ToolToggle, map[string]any{"alarm_id": ringing, "enabled": false})
	require.Equal(t, "Alarm ID 2 is triggered, stop it first", out)

	a, _ = m.Get(ringing)
	require.Equal(t, domain.Triggered, a.Status)

	out, _ = call(t, cs, ToolRemove, map[string]any{"alarm_id": id})
	require.Equal(t, "Removed alarm ID 1", out)

	out, _ = call(t, cs, ToolRemove, map[string]any{"alarm_id": id})
	require.Equal(t, "Alarm ID 1 not found", out)
}

// TestTools_SnoozeAndStop resolves the first ringing alarm when no id is given.
func TestTools_SnoozeAndStop(t *testing.T) {
	t.Parallel()

	m, clk := newManager(t)
	cs := connect(t, m)

	out, _ := call(t, cs, ToolSnooze, nil)
	require.Equal(t, "No ringing alarm", out)

	out, _ = call(t, cs, ToolStop, map[string]any{"alarm_id": -1})
	require.Equal(t, "No ringing alarm", out)

	id, err := m.Add(context.Background(), domain.Spec{Hour: 7, Minute: 0, Repeat: domain.Daily})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	m.Evaluate(context.Background())

	out, _ = call(t, cs, ToolSnooze, nil)
	require.Equal(t, "Alarm ID 1 snoozed for 5 minutes", out)

	a, _ := m.Get(id)
	require.Equal(t, domain.Snoozed, a.Status)

	out, _ = call(t, cs, ToolStop, map[string]any{"alarm_id": -1})
	require.Equal(t, "Alarm ID 1 stopped", out)

	a, _ = m.Get(id)
	require.Equal(t, domain.Enabled, a.Status)

	out, _ = call(t, cs, ToolStop, map[string]any{"alarm_id": id})
	require.Equal(t, "No active alarm found", out)

	out, _ = call(t, cs, ToolSnooze, map[string]any{"alarm_id": id})
	require.Contains(t, out, "Cannot snooze")
}

// TestFormatLine renders every optional part.
func TestFormatLine(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ID 3: 06:05 (once) [triggered]",
		FormatLine(domain.Alarm{ID: 3, Hour: 6, Minute: 5, Status: domain.Triggered}))
	require.Equal(t, "ID 4: 22:00 (daily) - sleep [disabled] (music: calm)",
		FormatLine(domain.Alarm{ID: 4, Hour: 22, Repeat: domain.Daily, Label: "sleep", MusicName: "calm", Status: domain.Disabled}))
}

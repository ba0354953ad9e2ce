package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// ImplementationName is advertised to MCP clients during initialization.
const ImplementationName = "alarm-clock"

// Tool names.
const (
	ToolAdd    = "self.alarm.add"
	ToolList   = "self.alarm.list"
	ToolRemove = "self.alarm.remove"
	ToolToggle = "self.alarm.toggle"
	ToolSnooze = "self.alarm.snooze"
	ToolStop   = "self.alarm.stop"
	ToolNext   = "self.alarm.next"
)

// firstActive selects the first ringing alarm in snooze and stop.
const firstActive = -1

// Service abstracts the scheduler operations used by the tools.
type Service interface {
	Add(ctx context.Context, spec domain.Spec) (int, error)
	Remove(ctx context.Context, id int) bool
	Enable(ctx context.Context, id int, enabled bool) bool
	Get(id int) (domain.Alarm, bool)
	All() []domain.Alarm
	Active() []domain.Alarm
	Snooze(ctx context.Context, id int) bool
	Stop(ctx context.Context, id int) bool
	NextAlarmDescription() string
}

// AddInput holds the arguments of self.alarm.add.
type AddInput struct {
	Hour       int    `json:"hour"                  jsonschema:"hour of the alarm (0-23)"`
	Minute     int    `json:"minute"                jsonschema:"minute of the alarm (0-59)"`
	RepeatMode int    `json:"repeat_mode,omitempty" jsonschema:"0=once, 1=daily, 2=weekdays, 3=weekends, 4=custom"`
	Weekdays   string `json:"weekdays,omitempty"    jsonschema:"days of a custom alarm, e.g. mon,wed,fri"`
	Label      string `json:"label,omitempty"       jsonschema:"optional label of the alarm"`
	MusicName  string `json:"music_name,omitempty"  jsonschema:"optional music to play, empty for the default one"`
}

// ListInput holds the arguments of self.alarm.list and self.alarm.next.
type ListInput struct{}

// RemoveInput holds the arguments of self.alarm.remove.
type RemoveInput struct {
	AlarmID int `json:"alarm_id" jsonschema:"id of the alarm to remove"`
}

// ToggleInput holds the arguments of self.alarm.toggle.
type ToggleInput struct {
	AlarmID int   `json:"alarm_id"          jsonschema:"id of the alarm to toggle"`
	Enabled *bool `json:"enabled,omitempty" jsonschema:"true to enable, false to disable; defaults to true"`
}

// TargetInput holds the arguments of self.alarm.snooze and self.alarm.stop.
type TargetInput struct {
	AlarmID *int `json:"alarm_id,omitempty" jsonschema:"id of the alarm; omit or pass -1 for the first ringing alarm"`
}

// tools binds the tool handlers to a scheduler.
type tools struct {
	service Service
}

// NewServer builds an MCP server exposing the alarm tools over the given service.
func NewServer(service Service, version string) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    ImplementationName,
		Version: version,
	}, nil)

	t := &tools{service: service}

	sdk.AddTool(server, &sdk.Tool{
		Name: ToolAdd,
		Description: "Set a new alarm. Returns the alarm id and a summary. " +
			"Custom alarms (repeat_mode 4) fire on the listed weekdays.",
	}, t.add)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolList,
		Description: "List all alarms with their status, followed by the next upcoming alarm.",
	}, t.list)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolRemove,
		Description: "Remove an alarm by id.",
	}, t.remove)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolToggle,
		Description: "Enable or disable an alarm by id.",
	}, t.toggle)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolSnooze,
		Description: "Snooze a ringing alarm. Without alarm_id the first ringing alarm is snoozed.",
	}, t.snooze)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolStop,
		Description: "Stop a ringing alarm. Without alarm_id the first ringing alarm is stopped.",
	}, t.stop)
	sdk.AddTool(server, &sdk.Tool{
		Name:        ToolNext,
		Description: "Describe the next upcoming alarm.",
	}, t.next)

	return server
}

// Handler serves the MCP server over the streamable HTTP transport.
func Handler(server *sdk.Server) http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, nil)
}

func (t *tools) add(ctx context.Context, _ *sdk.CallToolRequest, in AddInput) (*sdk.CallToolResult, any, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "mcp"), "tool", ToolAdd)

	var days domain.WeekdayMask

	if in.Weekdays != "" {
		mask, err := domain.ParseWeekdays(in.Weekdays)
		if err != nil {
			return nil, nil, err
		}

		days = mask
	}

	spec := domain.Spec{
		Hour:      in.Hour,
		Minute:    in.Minute,
		Repeat:    domain.RepeatMode(in.RepeatMode),
		Weekdays:  days,
		Label:     in.Label,
		MusicName: in.MusicName,
	}

	id, err := t.service.Add(ctx, spec)
	if err != nil {
		logger.WarnKV(ctx, "alarm not set", "error", err)

		return nil, nil, fmt.Errorf("set alarm: %w", err)
	}

	logger.InfoKV(ctx, "alarm set", "id", id)

	a, _ := t.service.Get(id)

	var b strings.Builder

	fmt.Fprintf(&b, "Alarm ID %d set: %s", id, domain.FormatTime(a.Hour, a.Minute))

	if a.Label != "" {
		fmt.Fprintf(&b, " - %s", a.Label)
	}

	if a.MusicName != "" {
		fmt.Fprintf(&b, " (music: %s)", a.MusicName)
	}

	fmt.Fprintf(&b, " (%s)", a.Repeat)

	return text(b.String()), nil, nil
}

func (t *tools) list(_ context.Context, _ *sdk.CallToolRequest, _ ListInput) (*sdk.CallToolResult, any, error) {
	all := t.service.All()
	if len(all) == 0 {
		return text("No alarms set"), nil, nil
	}

	var b strings.Builder

	b.WriteString("Alarms:\n")

	for _, a := range all {
		b.WriteString(FormatLine(a))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.service.NextAlarmDescription())

	return text(b.String()), nil, nil
}

func (t *tools) remove(ctx context.Context, _ *sdk.CallToolRequest, in RemoveInput) (*sdk.CallToolResult, any, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "mcp"), "tool", ToolRemove)

	if !t.service.Remove(ctx, in.AlarmID) {
		return text(notFound(in.AlarmID)), nil, nil
	}

	logger.InfoKV(ctx, "alarm removed", "id", in.AlarmID)

	return text(fmt.Sprintf("Removed alarm ID %d", in.AlarmID)), nil, nil
}

func (t *tools) toggle(ctx context.Context, _ *sdk.CallToolRequest, in ToggleInput) (*sdk.CallToolResult, any, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "mcp"), "tool", ToolToggle)

	enabled := in.Enabled == nil || *in.Enabled
	if !t.service.Enable(ctx, in.AlarmID, enabled) {
		return text(notFound(in.AlarmID)), nil, nil
	}

	a, ok := t.service.Get(in.AlarmID)
	if !ok {
		return text(notFound(in.AlarmID)), nil, nil
	}

	if a.Status.Ringing() {
		return text(fmt.Sprintf("Alarm ID %d is %s, stop it first", a.ID, a.Status)), nil, nil
	}

	logger.InfoKV(ctx, "alarm toggled", "id", in.AlarmID, "enabled", enabled)

	return text(fmt.Sprintf("Alarm ID %d %s", a.ID, a.Status)), nil, nil
}

func (t *tools) snooze(ctx context.Context, _ *sdk.CallToolRequest, in TargetInput) (*sdk.CallToolResult, any, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "mcp"), "tool", ToolSnooze)

	id, ok := t.target(in)
	if !ok {
		return text("No ringing alarm"), nil, nil
	}

	if !t.service.Snooze(ctx, id) {
		return text("Cannot snooze the alarm, it is not ringing or the snooze limit is reached"), nil, nil
	}

	a, _ := t.service.Get(id)

	logger.InfoKV(ctx, "alarm snoozed", "id", id, "snooze_count", a.SnoozeCount)

	return text(fmt.Sprintf("Alarm ID %d snoozed for %d minutes", id, a.SnoozeMinutes)), nil, nil
}

func (t *tools) stop(ctx context.Context, _ *sdk.CallToolRequest, in TargetInput) (*sdk.CallToolResult, any, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "mcp"), "tool", ToolStop)

	id, ok := t.target(in)
	if !ok {
		return text("No ringing alarm"), nil, nil
	}

	if !t.service.Stop(ctx, id) {
		return text("No active alarm found"), nil, nil
	}

	logger.InfoKV(ctx, "alarm stopped", "id", id)

	return text(fmt.Sprintf("Alarm ID %d stopped", id)), nil, nil
}

func (t *tools) next(_ context.Context, _ *sdk.CallToolRequest, _ ListInput) (*sdk.CallToolResult, any, error) {
	return text(t.service.NextAlarmDescription()), nil, nil
}

// target resolves an absent or -1 alarm id to the first ringing alarm.
func (t *tools) target(in TargetInput) (int, bool) {
	if in.AlarmID != nil && *in.AlarmID != firstActive {
		return *in.AlarmID, true
	}

	active := t.service.Active()
	if len(active) == 0 {
		return 0, false
	}

	return active[0].ID, true
}

// FormatLine renders one alarm as "ID n: HH:MM (mode) - label [status] (music: x)".
func FormatLine(a domain.Alarm) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ID %d: %s", a.ID, a.Describe())

	if a.Label != "" {
		fmt.Fprintf(&b, " - %s", a.Label)
	}

	fmt.Fprintf(&b, " [%s]", a.Status)

	if a.MusicName != "" {
		fmt.Fprintf(&b, " (music: %s)", a.MusicName)
	}

	return b.String()
}

func notFound(id int) string {
	return fmt.Sprintf("Alarm ID %d not found", id)
}

func text(s string) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: s}},
	}
}

package client

import (
	"context"
	"fmt"
	"io"
	"os"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// Options configures how alarmctl reaches the server.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Out receives the command output, os.Stdout when nil.
	Out io.Writer
}

// API is the part of the alarm service used by the actions.
type API interface {
	AddAlarm(ctx context.Context, spec domain.Spec) (int, error)
	ModifyAlarm(ctx context.Context, id int, spec domain.Spec) (bool, error)
	RemoveAlarm(ctx context.Context, id int) (bool, error)
	EnableAlarm(ctx context.Context, id int, enabled bool) (domain.Status, bool, error)
	GetAlarm(ctx context.Context, id int) (domain.Alarm, error)
	ListAlarms(ctx context.Context) ([]domain.Alarm, string, error)
	SnoozeAlarm(ctx context.Context, id int) (int, bool, error)
	StopAlarm(ctx context.Context, id int) (int, bool, error)
	StopAllAlarms(ctx context.Context) (int, error)
	NextAlarm(ctx context.Context) (api.NextAlarmInfo, error)
}

// Action is one alarmctl operation.
type Action func(ctx context.Context, client API, out io.Writer) error

// Run connects to the alarm server and performs the action.
func Run(ctx context.Context, opts *Options, action Action) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarmctl")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	// Results go to stdout, keep progress logs out of the way.
	ctx = logger.ForCommand(ctx)

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for audit logging.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	client, err := common.Dial(ctx, serverAddress,
		common.WithCallTimeout(cfg.Timeout),
		common.WithActor(actor))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Connected to alarm server", "server_address", serverAddress, "actor", actor)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if err = action(ctx, client, out); err != nil {
		return fmt.Errorf("alarm server %s: %w", serverAddress, err)
	}

	return nil
}

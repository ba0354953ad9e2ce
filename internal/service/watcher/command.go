package watcher

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// Options controls the watcher polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// PollInterval defines the interval between alarm state checks.
	PollInterval time.Duration
	// Out receives one line per observed transition, os.Stdout when nil.
	Out io.Writer
}

// DefaultPollInterval defines the polling interval for alarm state checks.
const DefaultPollInterval = 5 * time.Second

// Lister is the part of the alarm service polled by the watcher.
type Lister interface {
	ListAlarms(ctx context.Context) ([]domain.Alarm, string, error)
}

// Run polls the alarm list and prints ringing transitions until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-watcher")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = logger.Configure(cfg.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	// Results go to stdout, keep progress logs out of the way.
	ctx = logger.ForCommand(ctx)

	// Determine server address: command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Detect current system actor for audit logging.
	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	client, err := common.Dial(ctx, serverAddress,
		common.WithCallTimeout(cfg.Timeout),
		common.WithActor(actor))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger.InfoKV(ctx, "Watching alarms", "server_address", serverAddress, "interval", interval.String())

	return Watch(ctx, client, interval, out)
}

// Watch polls the lister every interval and writes transitions to out.
// It returns nil once the context is canceled.
func Watch(ctx context.Context, lister Lister, interval time.Duration, out io.Writer) error {
	state := newTracker()

	poll := func() {
		alarms, _, err := lister.ListAlarms(ctx)
		if err != nil {
			// Keep polling through transient failures.
			logger.ErrorKV(ctx, "List alarms failed", "error", err)

			return
		}

		for _, line := range state.observe(alarms) {
			logger.Info(ctx, line)

			if _, err = fmt.Fprintln(out, line); err != nil {
				logger.ErrorKV(ctx, "Write transition failed", "error", err)
			}
		}
	}

	poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// tracker remembers the ringing status of every alarm between polls.
type tracker struct {
	ringing map[int]domain.Status
}

func newTracker() *tracker {
	return &tracker{
		ringing: make(map[int]domain.Status),
	}
}

// observe compares the alarms with the previous poll and describes the transitions.
func (t *tracker) observe(alarms []domain.Alarm) []string {
	var (
		lines []string
		seen  = make(map[int]domain.Status, len(alarms))
	)

	for _, a := range alarms {
		if !a.Status.Ringing() {
			continue
		}

		seen[a.ID] = a.Status

		previous, wasRinging := t.ringing[a.ID]

		switch {
		case a.Status == domain.Triggered && (!wasRinging || previous == domain.Snoozed):
			lines = append(lines, describeRinging(a))
		case a.Status == domain.Snoozed && previous != domain.Snoozed:
			lines = append(lines, fmt.Sprintf("Alarm ID %d snoozed (%d/%d)", a.ID, a.SnoozeCount, a.MaxSnoozeCount))
		}
	}

	for _, a := range alarms {
		if _, wasRinging := t.ringing[a.ID]; wasRinging {
			if _, still := seen[a.ID]; !still {
				lines = append(lines, fmt.Sprintf("Alarm ID %d silenced", a.ID))
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(t.ringing)) {
		if !containsID(alarms, id) {
			lines = append(lines, fmt.Sprintf("Alarm ID %d removed while ringing", id))
		}
	}

	t.ringing = seen

	return lines
}

func describeRinging(a domain.Alarm) string {
	line := fmt.Sprintf("Alarm ID %d ringing: %s", a.ID, domain.FormatTime(a.Hour, a.Minute))

	if a.Label != "" {
		line += " - " + a.Label
	}

	if a.MusicName != "" {
		line += " (music: " + a.MusicName + ")"
	}

	return line
}

func containsID(alarms []domain.Alarm, id int) bool {
	for _, a := range alarms {
		if a.ID == id {
			return true
		}
	}

	return false
}

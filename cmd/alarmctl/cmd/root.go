package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/service/client"
	"github.com/oshokin/alarm-clock/internal/service/watcher"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// configPath stores the configuration file path.
	configPath string
	// serverAddress overrides the server address from the configuration.
	serverAddress string

	// rootCmd represents the base command for managing alarms remotely.
	rootCmd = &cobra.Command{
		Use:   "alarmctl",
		Short: "Manage the alarms of an alarm-server.",
		Long: `Creates, lists and silences alarms on a running alarm-server over gRPC.

Server address and timeouts are loaded from the configuration file; --server overrides the address.
Every request carries user@host of the caller for the server audit log.`,
		SilenceUsage: true,
	}
)

// Execute runs the alarmctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run executes the action with signal-aware cancellation.
func run(cmd *cobra.Command, action client.Action) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return client.Run(ctx, &client.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		Out:           cmd.OutOrStdout(),
	}, action)
}

// parseID reads an alarm id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid alarm id %q: %w", arg, err)
	}

	return id, nil
}

// optionalID reads an optional alarm id argument, defaulting to the first ringing alarm.
func optionalID(args []string) (int, error) {
	if len(args) == 0 {
		return client.FirstRinging, nil
	}

	return parseID(args[0])
}

// specFlags holds the alarm fields shared by add and modify.
type specFlags struct {
	repeat string
	days   string
	label  string
	music  string
}

func (f *specFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.repeat, "repeat", "r", "", "repeat mode: once, daily, weekdays, weekends or custom")
	cmd.Flags().StringVarP(&f.days, "days", "d", "", "weekdays of a custom alarm, e.g. mon,wed,fri")
	cmd.Flags().StringVarP(&f.label, "label", "l", "", "alarm label")
	cmd.Flags().StringVarP(&f.music, "music", "m", "", "music to play, empty for the default one")
}

func newAddCommand() *cobra.Command {
	var flags specFlags

	cmd := &cobra.Command{
		Use:   "add HH:MM",
		Short: "Add an alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := client.ParseSpec(args[0], flags.repeat, flags.days, flags.label, flags.music)
			if err != nil {
				return err
			}

			return run(cmd, client.Add(spec))
		},
	}

	flags.bind(cmd)

	return cmd
}

func newModifyCommand() *cobra.Command {
	var flags specFlags

	cmd := &cobra.Command{
		Use:   "modify ID HH:MM",
		Short: "Replace the time, repeat mode, label and music of an alarm.",
		Long: `Replaces the user-editable fields of an alarm. Omitted flags are cleared, not kept.
A ringing alarm keeps ringing; its snooze count is preserved.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // ID and time.
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			spec, err := client.ParseSpec(args[1], flags.repeat, flags.days, flags.label, flags.music)
			if err != nil {
				return err
			}

			return run(cmd, client.Modify(id, spec))
		},
	}

	flags.bind(cmd)

	return cmd
}

// newIDCommand builds a command taking exactly one alarm id.
func newIDCommand(use, short string, action func(id int) client.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return run(cmd, action(id))
		},
	}
}

func newSnoozeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snooze [ID]",
		Short: "Snooze a ringing alarm, the first one when no id is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalID(args)
			if err != nil {
				return err
			}

			return run(cmd, client.Snooze(id))
		},
	}
}

func newStopCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "stop [ID]",
		Short: "Stop a ringing alarm, the first one when no id is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return run(cmd, client.StopAll())
			}

			id, err := optionalID(args)
			if err != nil {
				return err
			}

			return run(cmd, client.Stop(id))
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "stop every ringing alarm")

	return cmd
}

func newWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print alarms as they start ringing, get snoozed and fall silent.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return watcher.Run(ctx, &watcher.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				PollInterval:  interval,
				Out:           cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", watcher.DefaultPollInterval, "polling interval")

	return cmd
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "alarm server address (host:port)")

	rootCmd.AddCommand(
		newAddCommand(),
		newModifyCommand(),
		&cobra.Command{
			Use:   "list",
			Short: "List every alarm and the next one to ring.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, client.List())
			},
		},
		&cobra.Command{
			Use:   "next",
			Short: "Describe the next alarm to ring.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, client.Next())
			},
		},
		newIDCommand("get", "Show one alarm.", client.Get),
		newIDCommand("remove", "Remove an alarm.", client.Remove),
		newIDCommand("enable", "Enable an alarm.", func(id int) client.Action { return client.Enable(id, true) }),
		newIDCommand("disable", "Disable an alarm.", func(id int) client.Action { return client.Enable(id, false) }),
		newSnoozeCommand(),
		newStopCommand(),
		newWatchCommand(),
	)
}

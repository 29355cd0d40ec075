package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"shakker/internal/bootstrap"
	alarmdto "shakker/internal/modules/alarm/dto"
	challengedto "shakker/internal/modules/challenge/dto"
	dispatchinadapter "shakker/internal/modules/dispatch/adapter/in"
	"shakker/internal/platform/config"
	"shakker/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var homePath string
	var verbose bool

	root := &cobra.Command{
		Use:           "shakker",
		Short:         "Wake-up alarms that demand proof you are awake",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&homePath, "home", defaultHome(), "shakker home directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newAlarmCmd(&homePath, &verbose))
	root.AddCommand(newBootCmd(&homePath, &verbose))
	root.AddCommand(newRunCmd(&homePath, &verbose))
	root.AddCommand(newFireCmd(&homePath, &verbose))
	root.AddCommand(newDismissCmd(&homePath, &verbose))
	root.AddCommand(newTUICmd(&homePath, &verbose))
	return root
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shakker"
	}
	return filepath.Join(home, ".shakker")
}

func loadApp(homePath string, verbose bool) (*bootstrap.App, error) {
	if err := os.MkdirAll(homePath, 0o755); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}
	cfg, err := config.New(homePath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(os.Stderr, verbose))
}

// daemonSocket resolves the socket of a running daemon. Challenge sessions
// live in the daemon process, so firing and dismissal go through it.
func daemonSocket(homePath string) (string, error) {
	cfg, err := config.New(homePath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(cfg.SocketPath); err != nil {
		return "", fmt.Errorf("no running daemon (start one with 'shakker run' or 'shakker tui')")
	}
	return cfg.SocketPath, nil
}

func printSession(cmd *cobra.Command, session challengedto.SessionOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "alarm %d\t%s\t%s\tprogress %d%%\n",
		session.AlarmID, session.Kind, session.State, session.Progress)
	if session.Question != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), session.Question)
	}
	if session.Degraded {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sensor unavailable, manual dismiss allowed")
	}
}

func parseClock(value string) (int, int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time must look like HH:MM, got %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("time must look like HH:MM, got %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("time must look like HH:MM, got %q", value)
	}
	return hour, minute, nil
}

func printAlarm(cmd *cobra.Command, alarm alarmdto.AlarmOutput) {
	state := "off"
	if alarm.Enabled {
		state = "on"
	}
	extra := ""
	if alarm.Armed {
		extra = "  armed"
	}
	if alarm.Denied {
		extra = "  timer-denied"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s%s\n",
		alarm.ID, alarm.TimeLabel, state, alarm.Repeat, alarm.Challenge, alarm.Message, extra)
}

func newAlarmCmd(homePath *string, verbose *bool) *cobra.Command {
	alarm := &cobra.Command{Use: "alarm", Short: "Manage alarm records"}

	var clockValue, message, challenge string
	var days []string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an alarm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hour, minute, err := parseClock(clockValue)
			if err != nil {
				return err
			}
			app, err := loadApp(*homePath, *verbose)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AlarmCLI.Create(context.Background(), hour, minute, message, days, challenge)
			if err != nil {
				return err
			}
			printAlarm(cmd, out)
			return nil
		},
	}
	addCmd.Flags().StringVar(&clockValue, "time", "", "wake time as HH:MM (24h)")
	addCmd.Flags().StringVar(&message, "message", "", "alarm message (defaults to the time)")
	addCmd.Flags().StringVar(&challenge, "challenge", "", "dismissal challenge: shake|math|lux")
	addCmd.Flags().StringSliceVar(&days, "days", nil, "repeat days, e.g. mon,wed,fri or daily")
	_ = addCmd.MarkFlagRequired("time")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List alarms ordered by next firing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath, *verbose)
			if err != nil {
				return err
			}
			defer app.Close()
			alarms, err := app.AlarmCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(alarms) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no alarms")
				return nil
			}
			for _, out := range alarms {
				printAlarm(cmd, out)
			}
			return nil
		},
	}

	setEnabled := func(use, short string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("bad alarm id %q", args[0])
				}
				app, err := loadApp(*homePath, *verbose)
				if err != nil {
					return err
				}
				defer app.Close()
				out, err := app.AlarmCLI.SetEnabled(context.Background(), id, enabled)
				if err != nil {
					return err
				}
				printAlarm(cmd, out)
				return nil
			},
		}
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad alarm id %q", args[0])
			}
			app, err := loadApp(*homePath, *verbose)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.AlarmCLI.Delete(context.Background(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			return nil
		},
	}

	var setClock, setMessage, setChallenge string
	var setDays []string
	setCmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update an alarm's time, message, days, or challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad alarm id %q", args[0])
			}
			input := alarmdto.UpdateInput{ID: id, Hour: -1, Message: setMessage, Challenge: setChallenge}
			if setClock != "" {
				input.Hour, input.Minute, err = parseClock(setClock)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("days") {
				input.Days = setDays
			}
			app, err := loadApp(*homePath, *verbose)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AlarmCLI.Update(context.Background(), input)
			if err != nil {
				return err
			}
			printAlarm(cmd, out)
			return nil
		},
	}
	setCmd.Flags().StringVar(&setClock, "time", "", "wake time as HH:MM (24h)")
	setCmd.Flags().StringVar(&setMessage, "message", "", "alarm message")
	setCmd.Flags().StringVar(&setChallenge, "challenge", "", "dismissal challenge: shake|math|lux")
	setCmd.Flags().StringSliceVar(&setDays, "days", nil, "repeat days, empty clears repetition")

	alarm.AddCommand(addCmd, listCmd,
		setEnabled("enable", "Enable an alarm and arm its timer", true),
		setEnabled("disable", "Disable an alarm and cancel its timer", false),
		rmCmd, setCmd)
	return alarm
}

func newBootCmd(homePath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Re-arm timers for all enabled alarms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath, *verbose)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.DispatchCLI.BootCompleted(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, armed %d, denied %d\n", out.Scanned, out.Armed, out.Denied)
			return nil
		},
	}
}

func newRunCmd(homePath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the alarm daemon until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath, *verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Timer.Run(ctx); err != nil {
				return err
			}
			defer func() { _ = app.Timer.Interrupt() }()

			ipcErr := make(chan error, 1)
			go func() { ipcErr <- app.IPC.Serve(ctx, app.SocketPath) }()

			out, err := app.DispatchCLI.BootCompleted(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "armed %d of %d alarms, waiting\n", out.Armed, out.Scanned)
			select {
			case <-ctx.Done():
				return nil
			case err := <-ipcErr:
				return err
			}
		},
	}
}

func newFireCmd(homePath *string, _ *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "fire <id>",
		Short: "Ring an alarm now, as if its timer fired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad alarm id %q", args[0])
			}
			sock, err := daemonSocket(*homePath)
			if err != nil {
				return err
			}
			out, err := dispatchinadapter.NewIPCClient().Fire(context.Background(), sock, id)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\nsession %s (%s)\n", out.Message, out.SessionID, out.Kind)
			return nil
		},
	}
}

func newDismissCmd(homePath *string, _ *bool) *cobra.Command {
	dismiss := &cobra.Command{Use: "dismiss", Short: "Interact with the active dismissal challenge"}

	dismiss.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the active challenge",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sock, err := daemonSocket(*homePath)
			if err != nil {
				return err
			}
			session, err := dispatchinadapter.NewIPCClient().DismissStatus(context.Background(), sock)
			if err != nil {
				return err
			}
			printSession(cmd, session)
			return nil
		},
	})

	dismiss.AddCommand(&cobra.Command{
		Use:   "answer <n>",
		Short: "Submit a math challenge answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("answer must be a number, got %q", args[0])
			}
			sock, err := daemonSocket(*homePath)
			if err != nil {
				return err
			}
			session, err := dispatchinadapter.NewIPCClient().DismissAnswer(context.Background(), sock, answer)
			if err != nil {
				return err
			}
			if session.State == "DISMISSED" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dismissed, good morning")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "wrong, try again")
			return nil
		},
	})

	dismiss.AddCommand(&cobra.Command{
		Use:   "manual",
		Short: "Dismiss a degraded challenge without solving it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sock, err := daemonSocket(*homePath)
			if err != nil {
				return err
			}
			if err := dispatchinadapter.NewIPCClient().DismissManual(context.Background(), sock); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dismissed")
			return nil
		},
	})

	return dismiss
}

func newTUICmd(homePath *string, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the shakker terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*homePath, *verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := app.Timer.Run(ctx); err != nil {
				return err
			}
			defer func() { _ = app.Timer.Interrupt() }()
			go func() { _ = app.IPC.Serve(ctx, app.SocketPath) }()
			if _, err := app.DispatchCLI.BootCompleted(ctx); err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

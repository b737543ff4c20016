package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/taskday/internal/timer"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, stop and inspect task timers",
	}
	cmd.AddCommand(
		newTimerStartCmd(app),
		newTimerStopCmd(app),
		newTimerStatusCmd(app),
		newTimerWatchCmd(app),
	)
	return cmd
}

func newTimerStartCmd(app *App) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "start TASK_ID",
		Short: "Start or resume a task's timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			var secs int64
			if target != "" {
				if secs, err = timer.ParseTarget(target); err != nil {
					return err
				}
				// Later status and watch calls count down from it too.
				if err := sess.SetTarget(ctx, args[0], secs, false); err != nil {
					return err
				}
			}

			res, err := sess.StartTimer(ctx, args[0], secs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case res.AlreadyComplete:
				fmt.Fprintf(out, "Target already reached (%s tracked); task completed\n", timer.FormatClock(res.BaseSeconds))
			case res.Created:
				fmt.Fprintf(out, "Started entry %s\n", res.Entry.ID)
			default:
				fmt.Fprintf(out, "Already running: entry %s\n", res.Entry.ID)
			}
			if len(res.Warnings) > 0 {
				fmt.Fprintf(out, "warnings: %s\n", strings.Join(res.Warnings, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target in minutes or as a duration, stored on this device; defaults to the stored target")
	return cmd
}

func newTimerStopCmd(app *App) *cobra.Command {
	var entryID, at string

	cmd := &cobra.Command{
		Use:   "stop [TASK_ID]",
		Short: "Stop a task's running entry, or a specific entry with --entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (entryID == "") == (len(args) == 0) {
				return fmt.Errorf("give either a task ID or --entry")
			}
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if entryID == "" {
				if at != "" {
					return fmt.Errorf("--at needs --entry")
				}
				entry, err := sess.StopTask(ctx, args[0])
				if err != nil {
					return err
				}
				if entry == nil {
					fmt.Fprintln(out, "Nothing running")
					return nil
				}
				fmt.Fprintf(out, "Stopped entry %s after %s\n", entry.ID, timer.FormatClock(*entry.DurationSeconds))
				return nil
			}

			var endAt *time.Time
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return &timer.ValidationError{Field: "at", Reason: "must be RFC 3339"}
				}
				endAt = &t
			}
			entry, err := sess.StopEntry(ctx, entryID, endAt)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Stopped entry %s after %s\n", entry.ID, timer.FormatClock(*entry.DurationSeconds))
			return nil
		},
	}

	cmd.Flags().StringVar(&entryID, "entry", "", "Entry ID to stop")
	cmd.Flags().StringVar(&at, "at", "", "End time (RFC 3339) for --entry")
	return cmd
}

func newTimerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status TASK_ID",
		Short: "Show tracked, remaining and running time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			st, err := sess.TimerStatus(ctx, args[0])
			if st.Task.ID == "" {
				return err
			}
			writeStatus(cmd.OutOrStdout(), st)
			if err != nil {
				app.Logger().WarnContext(ctx, "entries unavailable", "task_id", args[0], "error", err)
			}
			return nil
		},
	}
}

func newTimerWatchCmd(app *App) *cobra.Command {
	var interval time.Duration
	var exitOnDone bool

	cmd := &cobra.Command{
		Use:   "watch TASK_ID",
		Short: "Print the countdown until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			o, err := sess.OpenTimer(ctx, args[0])
			if o == nil {
				return err
			}
			defer o.Close()
			if err != nil {
				app.Logger().WarnContext(ctx, "entries unavailable", "task_id", args[0], "error", err)
			}
			if interval <= 0 {
				interval = sess.TickInterval()
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			out := cmd.OutOrStdout()
			h := o.Watch(ctx, interval, func(d timer.Display) {
				state := "stopped"
				if d.Running {
					state = "running"
				}
				fmt.Fprintf(out, "%s  %s\n", timer.FormatClock(d.Seconds()), state)
				if exitOnDone && d.Done() {
					cancel()
				}
			})
			h.Wait()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default from config)")
	cmd.Flags().BoolVar(&exitOnDone, "exit-on-done", false, "Exit once the target is reached")
	return cmd
}

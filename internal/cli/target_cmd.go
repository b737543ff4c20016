package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/taskday/internal/timer"
)

// Targets live on this device. The task's estimate is only touched with
// --mirror.
func newTargetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Manage per-device countdown targets",
	}
	cmd.AddCommand(
		newTargetSetCmd(app),
		newTargetClearCmd(app),
		newTargetShowCmd(app),
	)
	return cmd
}

func newTargetSetCmd(app *App) *cobra.Command {
	var mirror bool

	cmd := &cobra.Command{
		Use:   "set TASK_ID TARGET",
		Short: "Set a target in minutes or as a duration (45m, 1h30m)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			secs, err := timer.ParseTarget(args[1])
			if err != nil {
				return err
			}
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if err := sess.SetTarget(ctx, args[0], secs, mirror); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Target for %s set to %s\n", args[0], formatTarget(secs, true))
			return nil
		},
	}

	cmd.Flags().BoolVar(&mirror, "mirror", false, "Also store the target as the task's estimate")
	return cmd
}

func newTargetClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear TASK_ID",
		Short: "Remove the local target; the estimate applies again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if err := sess.ClearTarget(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Target for %s cleared\n", args[0])
			return nil
		},
	}
}

func newTargetShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TASK_ID",
		Short: "Show the effective target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			task, err := sess.Task(ctx, args[0])
			if err != nil {
				return err
			}
			secs, ok, err := sess.Target(ctx, task)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", task.Title, formatTarget(secs, ok))
			return nil
		},
	}
}

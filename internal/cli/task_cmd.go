package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/timer"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the day's tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskDoneCmd(app),
		newTaskRemoveCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var day, team, estimate string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}

			in := session.NewTask{Day: day, Title: strings.Join(args, " ")}
			if team != "" {
				in.TeamID = &team
			}
			if estimate != "" {
				secs, err := timer.ParseTarget(estimate)
				if err != nil {
					return err
				}
				in.Estimate = &secs
			}
			task, err := sess.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q for %s (%s)\n", task.Title, task.Day, task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&team, "team", "", "Team ID")
	cmd.Flags().StringVar(&estimate, "estimate", "", "Estimate in minutes or as a duration (1h30m)")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var day, team string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if day == "" {
				day = sess.Today()
			}
			var teamID *string
			if team != "" {
				teamID = &team
			}
			return listTasks(ctx, cmd, sess, day, teamID, all)
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&team, "team", "", "Only tasks of this team")
	cmd.Flags().BoolVar(&all, "all", true, "Include completed tasks")
	return cmd
}

func listTasks(ctx context.Context, cmd *cobra.Command, sess *session.Session, day string, teamID *string, all bool) error {
	tasks, err := sess.Tasks(ctx, day, teamID, all)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintf(out, "No tasks for %s.\n", day)
		return nil
	}

	teams, err := sess.Teams(ctx, true)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, taskRow(t, names))
	}
	fmt.Fprint(out, renderTable([]string{"ID", "TASK", "TEAM", "ESTIMATE", "DONE"}, rows))
	return nil
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if err := sess.CompleteTask(ctx, args[0], !undo); err != nil {
				return err
			}
			if undo {
				fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Reopen instead")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a task and its time entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if err := sess.DeleteTask(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", args[0])
			return nil
		},
	}
}

// printToday is the non-interactive default: today's tasks and total.
func printToday(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	sess, err := app.Session(ctx)
	if err != nil {
		return err
	}
	day := sess.Today()
	if err := listTasks(ctx, cmd, sess, day, nil, true); err != nil {
		return err
	}
	total, err := sess.DayTotal(ctx, day)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tracked today: %s of %s\n",
		timer.FormatClock(total), timer.FormatClock(sess.DailyGoal(ctx)))
	return nil
}

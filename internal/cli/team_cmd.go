package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	cmd.AddCommand(
		newTeamAddCmd(app),
		newTeamListCmd(app),
		newTeamArchiveCmd(app),
	)
	return cmd
}

func newTeamAddCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Create a team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			team, err := sess.CreateTeam(ctx, strings.Join(args, " "), color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %q (%s)\n", team.Name, team.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#6C63FF", "Display color")
	return cmd
}

func newTeamListCmd(app *App) *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			teams, err := sess.Teams(ctx, archived)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(teams) == 0 {
				fmt.Fprintln(out, "No teams.")
				return nil
			}
			rows := make([][]string, 0, len(teams))
			for _, t := range teams {
				state := ""
				if t.Archived {
					state = "archived"
				}
				rows = append(rows, []string{t.ID, t.Name, t.Color, state})
			}
			fmt.Fprint(out, renderTable([]string{"ID", "NAME", "COLOR", ""}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived teams")
	return cmd
}

func newTeamArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if err := sess.ArchiveTeam(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived team %s\n", args[0])
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/export"
	"github.com/sadopc/taskday/internal/timer"
)

func newExportCmd(app *App) *cobra.Command {
	var format, output, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export time entries as CSV, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := exportFormat(format, output)
			if err != nil {
				return err
			}
			fromT, err := parseDayFlag("from", from, 0)
			if err != nil {
				return err
			}
			// --to is inclusive.
			toT, err := parseDayFlag("to", to, 1)
			if err != nil {
				return err
			}

			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			rows, err := sess.Entries(ctx, fromT, toT, limit)
			if err != nil {
				return err
			}

			if output == "" {
				return export.Write(cmd.OutOrStdout(), f, rows, sess.Now())
			}
			if err := export.ToFile(output, f, rows, sess.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(rows), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "csv, json or yaml (default from --output, else csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries (0 for all)")
	return cmd
}

func exportFormat(flag, output string) (export.Format, error) {
	switch {
	case flag != "":
		return export.ParseFormat(flag)
	case output != "":
		return export.FormatFromPath(output)
	}
	return export.FormatCSV, nil
}

// parseDayFlag returns local midnight of the day, shifted by addDays.
func parseDayFlag(name, value string, addDays int) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(domain.DayLayout, value, time.Local)
	if err != nil {
		return nil, &timer.ValidationError{Field: name, Reason: "must be YYYY-MM-DD"}
	}
	t = t.AddDate(0, 0, addDays)
	return &t, nil
}

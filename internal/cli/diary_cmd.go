package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newDiaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Read and write the daily diary",
	}
	cmd.AddCommand(
		newDiaryShowCmd(app),
		newDiaryWriteCmd(app),
	)
	return cmd
}

func newDiaryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [DAY]",
		Short: "Print the diary for a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			day := sess.Today()
			if len(args) == 1 {
				day = args[0]
			}
			v, err := sess.Diary(ctx, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case v.HasDraft:
				fmt.Fprintf(out, "%s (unsaved draft)\n\n%s\n", day, v.Draft)
			case v.Saved != nil:
				fmt.Fprintf(out, "%s\n\n%s\n", day, v.Saved.Body)
			default:
				fmt.Fprintf(out, "Nothing written for %s.\n", day)
			}
			return nil
		},
	}
}

func newDiaryWriteCmd(app *App) *cobra.Command {
	var day string
	var draft bool

	cmd := &cobra.Command{
		Use:   "write [TEXT...]",
		Short: "Save the diary for a day; reads stdin when no text is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Session(ctx)
			if err != nil {
				return err
			}
			if day == "" {
				day = sess.Today()
			}

			body := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read diary text: %w", err)
				}
				body = strings.TrimRight(string(b), "\n")
			}

			if draft {
				if err := sess.SaveDraft(ctx, day, body); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Draft kept for %s\n", day)
				return nil
			}
			if _, err := sess.SaveDiary(ctx, day, body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Diary saved for %s\n", day)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&draft, "draft", false, "Keep as a local draft instead of saving")
	return cmd
}

package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/daywise/internal/cli/formatter"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/spf13/cobra"
)

func newWorkdayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workday",
		Short: "Configure working hours per weekday",
	}

	cmd.AddCommand(
		newWorkdayShowCmd(app),
		newWorkdaySetCmd(app),
		newWorkdayImportCmd(app),
	)

	return cmd
}

func newWorkdayShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the work week and daily capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			week, err := app.Workdays.Week(ctx)
			if err != nil {
				return err
			}
			windows, err := app.Workdays.Windows(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWorkWeek(week, windows))
			return nil
		},
	}
}

func newWorkdaySetCmd(app *App) *cobra.Command {
	var start, end string
	var breaks []string
	var off bool

	cmd := &cobra.Command{
		Use:   "set <weekday>",
		Short: "Set the hours and breaks of one weekday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			wd, err := domain.ParseWeekday(args[0])
			if err != nil {
				return err
			}
			week, err := app.Workdays.Week(ctx)
			if err != nil {
				return err
			}

			cfg := week[wd]
			cfg.Enabled = !off
			if start != "" {
				if cfg.Start, err = domain.ParseTimeOfDay(start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}
			if end != "" {
				if cfg.End, err = domain.ParseTimeOfDay(end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}
			if cmd.Flags().Changed("break") {
				cfg.Breaks = nil
				for _, b := range breaks {
					iv, err := domain.ParseInterval(b)
					if err != nil {
						return fmt.Errorf("invalid --break: %w", err)
					}
					cfg.Breaks = append(cfg.Breaks, iv)
				}
			}

			if err := app.Workdays.Set(ctx, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", wd)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start of the work window (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End of the work window (HH:MM)")
	cmd.Flags().StringSliceVar(&breaks, "break", nil, "Breaks as HH:MM-HH:MM; an empty value clears them")
	cmd.Flags().BoolVar(&off, "off", false, "Mark the day as a non-working day")

	return cmd
}

func newWorkdayImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Load weekday settings from a YAML file",
		Long: "Reads a file of the form\n\n" +
			"  days:\n" +
			"    mon: {start: \"09:00\", end: \"17:00\", breaks: [\"12:00-12:30\"]}\n" +
			"    sat: {enabled: false}\n\n" +
			"Days not listed keep their settings. Nothing is saved if any day is invalid.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening workday file: %w", err)
			}
			defer f.Close()

			n, err := app.Workdays.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d day(s)\n", n)
			return nil
		},
	}
}

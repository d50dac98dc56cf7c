package cli

import (
	"fmt"

	"github.com/alexanderramin/daywise/internal/cli/formatter"
	"github.com/alexanderramin/daywise/internal/service"
	"github.com/spf13/cobra"
)

func newTodayCmd(app *App) *cobra.Command {
	var date string
	var includeDone bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the day's tasks against available capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, app, date, includeDone)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().BoolVar(&includeDone, "include-done", false, "Also list finished tasks")

	return cmd
}

func runToday(cmd *cobra.Command, app *App, date string, includeDone bool) error {
	day, err := parseDay(app, date)
	if err != nil {
		return err
	}
	view, err := app.Today.Today(cmd.Context(), service.TodayRequest{Day: day, IncludeDone: includeDone})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatToday(view, app.loc()))
	return nil
}

func newLockCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Freeze the day's task set and allocations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(app, date)
			if err != nil {
				return err
			}
			lock, err := app.Today.Lock(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLocked(lock.Date, len(lock.TaskIDs), lock.LockedAt.In(app.loc())))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to lock (YYYY-MM-DD, today, tomorrow)")

	return cmd
}

func newUnlockCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Drop the daily lock so the day follows live task data again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Today.Unlock(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Day unlocked.")
			return nil
		},
	}
}

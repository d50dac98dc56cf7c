package cli

import (
	"fmt"

	"github.com/alexanderramin/daywise/internal/cli/formatter"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/spf13/cobra"
)

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task>",
		Short: "Mark a task done once its dependencies are done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetDone(cmd, app, args[0], true)
		},
	}
}

func newReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <task>",
		Short: "Move a done task back to TODO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetDone(cmd, app, args[0], false)
		},
	}
}

func runSetDone(cmd *cobra.Command, app *App, input string, done bool) error {
	ctx := cmd.Context()
	id, loaded, err := resolveTask(ctx, app, input)
	if err != nil {
		return err
	}
	known := make(map[string]domain.Task, len(loaded))
	for _, t := range loaded {
		known[t.ID] = *t
	}
	res, err := app.Completion.SetDone(ctx, id, done, known)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompletion(res, done))
	return nil
}

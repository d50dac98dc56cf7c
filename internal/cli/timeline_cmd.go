package cli

import (
	"fmt"

	"github.com/alexanderramin/daywise/internal/cli/formatter"
	"github.com/alexanderramin/daywise/internal/timeline"
	"github.com/spf13/cobra"
)

const defaultTimelineDays = 14

func newTimelineCmd(app *App) *cobra.Command {
	var from string
	var days int
	var expand []string
	var expandAll bool

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show projects and tasks as a day-by-day Gantt chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start, err := parseDay(app, from)
			if err != nil {
				return err
			}
			tree, err := app.Timeline.Build(ctx, start, days)
			if err != nil {
				return err
			}

			expanded := make(map[string]bool)
			if expandAll {
				timeline.Walk(tree.Projects, func(n timeline.Node, _ int) {
					if n.Kind == timeline.KindGroup {
						expanded[n.ID] = true
					}
				})
			}
			for _, input := range expand {
				id, err := resolveTaskID(ctx, app, input)
				if err != nil {
					return err
				}
				expanded[id] = true
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeline(tree, timeline.Flatten(tree, expanded)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day shown (YYYY-MM-DD, today)")
	cmd.Flags().IntVar(&days, "days", defaultTimelineDays, "Number of days shown")
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "Parent tasks to expand (ids or titles)")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Expand every parent task")

	return cmd
}

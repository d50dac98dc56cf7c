package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/daywise/internal/cli/formatter"
	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/repository"
	"github.com/alexanderramin/daywise/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskPlanCmd(app),
		newTaskUpdateCmd(app),
	)

	return cmd
}

func parseStatus(s string) (domain.TaskStatus, error) {
	st := domain.TaskStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !domain.ValidTaskStatuses[st] {
		return "", fmt.Errorf("unknown status %q (todo, in_progress, waiting, done)", s)
	}
	return st, nil
}

// changedInt returns v only when the named flag was given on the command line.
func changedInt(flags *pflag.FlagSet, name string, v int) *int {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		estimate, progress, order  int
		status, parent, project    string
		start, end, due, notBefore string
		depends                    []string
		fixed                      bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t := &domain.Task{
				Title:       strings.Join(args, " "),
				Progress:    progress,
				IsFixedTime: fixed,
			}

			if status != "" {
				st, err := parseStatus(status)
				if err != nil {
					return err
				}
				if st == domain.TaskDone {
					return service.ErrUseCompletion
				}
				t.Status = st
			}
			t.EstimatedMin = changedInt(cmd.Flags(), "estimate", estimate)
			if parent != "" {
				pid, err := resolveTaskID(ctx, app, parent)
				if err != nil {
					return err
				}
				t.ParentID = &pid
				t.OrderInParent = changedInt(cmd.Flags(), "order", order)
			}
			if project != "" {
				projectID, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				t.ProjectID = &projectID
			}
			for _, d := range depends {
				id, err := resolveTaskID(ctx, app, d)
				if err != nil {
					return err
				}
				t.DependencyIDs = append(t.DependencyIDs, id)
			}

			var err error
			if t.PlannedStart, err = parseOptionalTime(app, start); err != nil {
				return err
			}
			if t.PlannedEnd, err = parseOptionalTime(app, end); err != nil {
				return err
			}
			if t.DueDate, err = parseOptionalTime(app, due); err != nil {
				return err
			}
			if t.StartNotBefore, err = parseOptionalTime(app, notBefore); err != nil {
				return err
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s [%s]\n", t.Title, formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated minutes")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress percent (0-100)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (todo, in_progress, waiting)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task (id or title)")
	cmd.Flags().IntVar(&order, "order", 0, "Step number within the parent")
	cmd.Flags().StringVar(&project, "project", "", "Project (id or name)")
	cmd.Flags().StringSliceVar(&depends, "depends", nil, "Tasks that must be done first")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "Fixed-time task such as a meeting")
	cmd.Flags().StringVar(&start, "start", "", "Planned start (YYYY-MM-DD[THH:MM])")
	cmd.Flags().StringVar(&end, "end", "", "Planned end (YYYY-MM-DD[THH:MM])")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notBefore, "not-before", "", "Do not schedule before (YYYY-MM-DD)")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var statuses []string
	var project string
	var all, tree bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := repository.TaskFilter{}
			for _, s := range statuses {
				st, err := parseStatus(s)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, st)
			}
			if len(filter.Statuses) == 0 && !all {
				filter.Statuses = []domain.TaskStatus{domain.TaskTodo, domain.TaskInProgress, domain.TaskWaiting}
			}
			if project != "" {
				id, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				filter.ProjectID = &id
			}

			tasks, err := app.Tasks.List(ctx, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			if tree {
				fmt.Fprint(out, formatter.FormatTaskTree(tasks))
				return nil
			}
			fmt.Fprint(out, formatter.FormatTaskList(tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only these statuses")
	cmd.Flags().StringVar(&project, "project", "", "Only tasks of this project (id or name)")
	cmd.Flags().BoolVar(&all, "all", false, "Include done tasks")
	cmd.Flags().BoolVar(&tree, "tree", false, "Show subtasks under their parents")

	return cmd
}

func newTaskPlanCmd(app *App) *cobra.Command {
	var start, end string
	var dayMinutes []string

	cmd := &cobra.Command{
		Use:   "plan <task>",
		Short: "Place a task on the timeline and allocate minutes to days",
		Long: "Sets the planned span of a task. Each --day DATE=MINUTES records time\n" +
			"allocated on that day; MINUTES of 0 removes the day.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			req := service.PlanRequest{TaskID: id, DayMinutes: make(map[string]int, len(dayMinutes))}
			if req.Start, err = parseOptionalTime(app, start); err != nil {
				return err
			}
			if req.End, err = parseOptionalTime(app, end); err != nil {
				return err
			}
			for _, dm := range dayMinutes {
				day, minutes, ok := strings.Cut(dm, "=")
				if !ok {
					return fmt.Errorf("invalid --day %q (want YYYY-MM-DD=MINUTES)", dm)
				}
				n, err := strconv.Atoi(strings.TrimSpace(minutes))
				if err != nil {
					return fmt.Errorf("invalid minutes in --day %q: %w", dm, err)
				}
				req.DayMinutes[strings.TrimSpace(day)] = n
			}

			t, err := app.Tasks.Plan(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %s (%d day allocation(s))\n", t.Title, len(req.DayMinutes))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Planned start (YYYY-MM-DD[THH:MM])")
	cmd.Flags().StringVar(&end, "end", "", "Planned end (YYYY-MM-DD[THH:MM])")
	cmd.Flags().StringArrayVar(&dayMinutes, "day", nil, "Allocation as YYYY-MM-DD=MINUTES (repeatable)")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		title, status, project, due, notBefore string
		progress, estimate                     int
		depends                                []string
		clearDeps, fixed                       bool
	)

	cmd := &cobra.Command{
		Use:   "update <task>",
		Short: "Change task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var u service.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("status") {
				st, err := parseStatus(status)
				if err != nil {
					return err
				}
				u.Status = &st
			}
			u.Progress = changedInt(flags, "progress", progress)
			u.Estimate = changedInt(flags, "estimate", estimate)
			if flags.Changed("fixed") {
				u.FixedTime = &fixed
			}
			if project != "" {
				pid, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				u.ProjectID = &pid
			}
			for _, d := range depends {
				depID, err := resolveTaskID(ctx, app, d)
				if err != nil {
					return err
				}
				u.DependsOn = append(u.DependsOn, depID)
			}
			u.ClearDeps = clearDeps
			if u.DueDate, err = parseOptionalTime(app, due); err != nil {
				return err
			}
			if u.NotBefore, err = parseOptionalTime(app, notBefore); err != nil {
				return err
			}

			t, err := app.Tasks.Update(ctx, id, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s [%s]\n", t.Title, formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&status, "status", "", "New status (todo, in_progress, waiting)")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress percent (0-100)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated minutes")
	cmd.Flags().StringVar(&project, "project", "", "Project (id or name)")
	cmd.Flags().StringSliceVar(&depends, "depends", nil, "Add dependencies")
	cmd.Flags().BoolVar(&clearDeps, "clear-deps", false, "Remove existing dependencies first")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "Fixed-time task such as a meeting")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notBefore, "not-before", "", "Do not schedule before (YYYY-MM-DD)")

	return cmd
}

package cli

import (
	"time"

	"github.com/alexanderramin/daywise/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Today      service.TodayService
	Completion service.CompletionService
	Timeline   service.TimelineService
	Tasks      service.TaskService
	Projects   service.ProjectService
	Workdays   service.WorkdayService

	// Location interprets dates given on the command line. Nil uses time.Local.
	Location *time.Location
	// Now is the clock used for default dates. Nil uses time.Now.
	Now func() time.Time
}

func (a *App) loc() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now().In(a.loc())
	}
	return a.Now().In(a.loc())
}

// NewRootCmd creates the top-level "daywise" command and registers all
// subcommands against the provided App. Without a subcommand it shows today.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "daywise",
		Short:         "Plan the day against real capacity and track work on a timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, app, "", false)
		},
	}

	root.AddCommand(
		newTodayCmd(app),
		newLockCmd(app),
		newUnlockCmd(app),
		newDoneCmd(app),
		newReopenCmd(app),
		newTimelineCmd(app),
		newTaskCmd(app),
		newProjectCmd(app),
		newWorkdayCmd(app),
	)

	return root
}

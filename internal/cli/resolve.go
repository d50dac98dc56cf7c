package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
	"github.com/alexanderramin/daywise/internal/repository"
)

// resolveTaskID resolves a task identifier which can be:
//   - A full task id
//   - A unique id prefix (as printed by "task list")
//   - A unique title, case-insensitive
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	id, _, err := resolveTask(ctx, app, input)
	return id, err
}

// resolveTask is resolveTaskID that also hands back every task it loaded, so
// callers can reuse them instead of fetching again.
func resolveTask(ctx context.Context, app *App, input string) (string, []*domain.Task, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil, fmt.Errorf("task ID is required")
	}

	tasks, err := app.Tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return "", nil, err
	}
	id, err := matchTask(tasks, input)
	return id, tasks, err
}

func matchTask(tasks []*domain.Task, input string) (string, error) {
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}
	if len(matches) == 0 {
		for _, t := range tasks {
			if strings.EqualFold(t.Title, input) {
				matches = append(matches, t.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveProjectID resolves a project by id, unique id prefix, or name.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range projects {
		if p.ID == input || strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parseDay reads a --date style flag: empty or "today", "tomorrow",
// "yesterday", or YYYY-MM-DD.
func parseDay(app *App, input string) (time.Time, error) {
	now := app.now()
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	day, err := domain.ParseDayKey(input, app.loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", input, err)
	}
	return day, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime reads a timestamp flag in the app location. A bare date means
// the start of that day.
func parseTime(app *App, input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, input, app.loc()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want YYYY-MM-DD or YYYY-MM-DDTHH:MM)", input)
}

func parseOptionalTime(app *App, input string) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}
	t, err := parseTime(app, input)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

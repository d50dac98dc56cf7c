// Package timeline builds the Gantt-style aggregation tree: project, then a
// placeholder phase, then parent task groups, then subtasks, each aggregate
// row carrying a rolled-up bar over a fixed range of visible days.
package timeline

import (
	"time"

	"github.com/alexanderramin/daywise/internal/domain"
)

const (
	// PlaceholderPhaseTitle names the single phase every project gets until
	// real phase assignment exists.
	PlaceholderPhaseTitle = "General"
	// UnassignedProjectTitle names the synthetic project for tasks without one.
	UnassignedProjectTitle = "Unassigned"
	// MissingParentTitle is used for groups whose parent task is not loaded.
	MissingParentTitle = "(missing parent)"
)

// ScheduleEntry is a day-indexed allocation record: minutes of a task
// planned on one ISO day.
type ScheduleEntry struct {
	TaskID  string
	Day     string
	Minutes int
}

// Input is an immutable snapshot of everything one build needs.
type Input struct {
	// Days is the ordered visible range; one column per day.
	Days []time.Time
	// Location interprets planned timestamps and Days. Nil uses UTC.
	Location *time.Location
	Tasks    []domain.Task
	Entries  []ScheduleEntry
	// ProjectNames maps project id to display name.
	ProjectNames map[string]string
	// ExtraTitles supplies titles for referenced tasks that are not in Tasks,
	// such as a parent outside the visible window.
	ExtraTitles map[string]string
}

// Bar is the rendered span and rolled-up state of a row.
// EndIndex >= StartIndex and Progress is within [0,100].
type Bar struct {
	StartIndex  int
	EndIndex    int
	Progress    int
	Status      domain.TaskStatus
	IsFixedTime bool
	IsSplit     bool
}

// Span returns the number of days the bar covers.
func (b Bar) Span() int {
	return b.EndIndex - b.StartIndex + 1
}

// Leaf is a per-task record built before any aggregation.
type Leaf struct {
	TaskID        string
	Title         string
	ParentID      string
	ProjectID     string
	OrderInParent *int
	// TotalMin is the task's estimate (0 when unset); it weights progress.
	TotalMin int
	// AllocatedDays are the sorted, unique day indices with allocation records.
	AllocatedDays []int
	// Scheduled is true when the task has planned dates or allocation records
	// of its own. Unscheduled parent tasks do not contribute to their group bar.
	Scheduled bool
	Bar       Bar
}

// NodeKind identifies the level of a tree node.
type NodeKind string

const (
	KindProject NodeKind = "project"
	KindPhase   NodeKind = "phase"
	// KindGroup is a parent task with its subtasks.
	KindGroup NodeKind = "group"
	// KindTask is a subtask or a standalone task.
	KindTask NodeKind = "task"
)

// Node is one row of the aggregation tree.
type Node struct {
	Kind  NodeKind
	ID    string
	Title string
	Bar   Bar
	// Step is the subtask's order within its parent, when known.
	Step     *int
	Children []Node
}

// Tree is the result of Build.
type Tree struct {
	Days     []time.Time
	Projects []Node
}

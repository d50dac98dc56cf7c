package domain

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskWaiting    TaskStatus = "WAITING"
	TaskDone       TaskStatus = "DONE"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskTodo:       true,
	TaskInProgress: true,
	TaskWaiting:    true,
	TaskDone:       true,
}

// ParseTaskStatus normalizes s into a TaskStatus. Unknown values map to TODO.
func ParseTaskStatus(s string) TaskStatus {
	st := TaskStatus(s)
	if ValidTaskStatuses[st] {
		return st
	}
	return TaskTodo
}

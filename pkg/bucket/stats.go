package bucket

import (
	"time"

	"tableflip.dev/taskflow/pkg/task"
)

// Stats counts tasks by status.
type Stats struct {
	Total      int `json:"total" yaml:"total"`
	Todo       int `json:"todo" yaml:"todo"`
	InProgress int `json:"in_progress" yaml:"in_progress"`
	Done       int `json:"done" yaml:"done"`
	Overdue    int `json:"overdue" yaml:"overdue"`
}

// Count tallies tasks. A task is overdue when it is not done and its due date is before
// today.
func Count(tasks []task.Task, today time.Time) Stats {
	var s Stats
	cutoff := task.DateOf(today)
	for _, t := range tasks {
		s.Total++
		switch t.Status {
		case task.StatusTodo:
			s.Todo++
		case task.StatusInProgress:
			s.InProgress++
		case task.StatusDone:
			s.Done++
		}
		// YYYY-MM-DD sorts lexically in date order.
		if t.Status != task.StatusDone && t.Scheduled() && t.DueDate < cutoff {
			s.Overdue++
		}
	}
	return s
}

// Percent returns the share of done tasks, 0 to 100.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Done * 100 / s.Total
}

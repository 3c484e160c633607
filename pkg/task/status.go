package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidStatus is returned for any status outside todo, in_progress and done.
	ErrInvalidStatus = errors.New("task: invalid status")
	// ErrInvalidPriority is returned for any priority outside low, medium, high and urgent.
	ErrInvalidPriority = errors.New("task: invalid priority")
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses returns every status in board order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus converts raw input to a Status. Dashes and spaces are accepted in place of
// the underscore so "in-progress" and "in progress" both work on the command line.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"), " ", "_"))
	for _, candidate := range Statuses() {
		if candidate == s {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrInvalidStatus, raw)
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	for _, candidate := range Statuses() {
		if candidate == s {
			return true
		}
	}
	return false
}

// Label is the human heading for the status.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities returns every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// ParsePriority converts raw input to a Priority. Empty input yields medium.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	for _, candidate := range Priorities() {
		if candidate == p {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrInvalidPriority, raw)
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	for _, candidate := range Priorities() {
		if candidate == p {
			return true
		}
	}
	return false
}

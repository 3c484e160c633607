// Package task holds the task record shared by every view, the store and the handlers
// that change task state.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work. An empty WorkspaceID marks the task private to its creator.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status    `json:"status" yaml:"status"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	DueDate     Date      `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	DueTime     Clock     `json:"due_time,omitempty" yaml:"due_time,omitempty"`
	WorkspaceID string    `json:"workspace_id,omitempty" yaml:"workspace_id,omitempty"`
	CreatedBy   string    `json:"created_by" yaml:"created_by"`
	AssignedTo  string    `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	Position    int       `json:"position" yaml:"position"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// New returns a todo task with a fresh ID and medium priority.
func New(title, createdBy string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Private reports whether the task belongs to no workspace.
func (t Task) Private() bool {
	return t.WorkspaceID == ""
}

// Scheduled reports whether the task has a usable due date.
func (t Task) Scheduled() bool {
	return t.DueDate.Valid()
}

// Validate checks the fields every stored task must carry.
func (t Task) Validate() error {
	var errs []error
	if strings.TrimSpace(t.ID) == "" {
		errs = append(errs, errors.New("task: missing id"))
	}
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, errors.New("task: empty title"))
	}
	if !t.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w %q", ErrInvalidStatus, t.Status))
	}
	if !t.Priority.Valid() {
		errs = append(errs, fmt.Errorf("%w %q", ErrInvalidPriority, t.Priority))
	}
	return errors.Join(errs...)
}

// Patch is a partial update. Nil fields are left alone; a pointer to the zero value
// clears an optional field.
type Patch struct {
	Title       *string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Status      *Status   `json:"status,omitempty" yaml:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
	DueDate     *Date     `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	DueTime     *Clock    `json:"due_time,omitempty" yaml:"due_time,omitempty"`
	AssignedTo  *string   `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	Position    *int      `json:"position,omitempty" yaml:"position,omitempty"`
}

// StatusPatch is a patch that only moves the task to s.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.DueDate == nil && p.DueTime == nil && p.AssignedTo == nil && p.Position == nil
}

// Validate rejects values that would produce an invalid task.
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return errors.New("task: empty title")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidStatus, *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidPriority, *p.Priority)
	}
	if p.DueDate != nil && *p.DueDate != "" && !p.DueDate.Valid() {
		return fmt.Errorf("task: invalid due date %q", *p.DueDate)
	}
	if p.DueTime != nil && *p.DueTime != "" {
		if _, ok := p.DueTime.Hour(); !ok {
			return fmt.Errorf("task: invalid due time %q", *p.DueTime)
		}
	}
	return nil
}

// Apply returns a copy of t with the patch applied and UpdatedAt set to now.
func (p Patch) Apply(t Task, now time.Time) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	t.UpdatedAt = now
	return t
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/taskflow/pkg/cache"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/transition"
)

// ErrAmbiguous is returned when an ID prefix matches more than one record.
var ErrAmbiguous = errors.New("app: ambiguous id")

// TaskInput holds the fields of a new task as typed by a user.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
	DueTime     string
	AssignedTo  string
	Position    int
}

// Build validates the input and returns a task created by createdBy.
func (in TaskInput) Build(createdBy string) (task.Task, error) {
	t := task.New(in.Title, createdBy)
	if t.Title == "" {
		return task.Task{}, errors.New("app: a task needs a title")
	}
	t.Description = strings.TrimSpace(in.Description)
	t.AssignedTo = strings.TrimSpace(in.AssignedTo)
	t.Position = in.Position
	if in.Status != "" {
		s, err := task.ParseStatus(in.Status)
		if err != nil {
			return task.Task{}, err
		}
		t.Status = s
	}
	p, err := task.ParsePriority(in.Priority)
	if err != nil {
		return task.Task{}, err
	}
	t.Priority = p
	if in.DueDate != "" {
		d, err := task.ParseDate(in.DueDate)
		if err != nil {
			return task.Task{}, fmt.Errorf("app: due date %q: %w", in.DueDate, err)
		}
		t.DueDate = d
	}
	if in.DueTime != "" {
		c, err := task.ParseClock(in.DueTime)
		if err != nil {
			return task.Task{}, err
		}
		t.DueTime = c
	}
	return t, nil
}

// Tasks returns the loaded task snapshot of scope. On a fetch failure the empty snapshot
// is returned together with the error so callers can show an empty state and retry.
func (s *Service) Tasks(ctx context.Context, scope store.Scope) (*cache.Tasks, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tasks := cache.NewTasks(s.Persistence, scope)
	return tasks, tasks.Refresh(ctx)
}

// AddTask creates a task in the snapshot's scope.
func (s *Service) AddTask(ctx context.Context, tasks *cache.Tasks, in TaskInput) (task.Task, error) {
	sess, err := s.Session(ctx)
	if err != nil {
		return task.Task{}, err
	}
	t, err := in.Build(sess.UserID)
	if err != nil {
		return task.Task{}, err
	}
	return tasks.Create(ctx, t)
}

// EditTask applies a patch.
func (s *Service) EditTask(ctx context.Context, tasks *cache.Tasks, id string, p task.Patch) (task.Task, error) {
	if p.Empty() {
		return task.Task{}, errors.New("app: nothing to change")
	}
	if err := p.Validate(); err != nil {
		return task.Task{}, err
	}
	return tasks.Update(ctx, id, p)
}

// Transitions returns a status handler bound to the snapshot.
func (s *Service) Transitions(tasks *cache.Tasks, onError func(error)) *transition.Handler {
	return &transition.Handler{Board: tasks, OnError: onError}
}

// FindTask resolves a full ID or a unique ID prefix within the snapshot.
func FindTask(tasks []task.Task, ref string) (task.Task, error) {
	return findByID(tasks, strings.TrimSpace(ref), "task", func(t task.Task) string { return t.ID })
}

package cache

import (
	"context"
	"fmt"

	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
)

// TaskStore is the part of store.Persistence the task snapshot needs.
type TaskStore interface {
	ListTasks(ctx context.Context, scope store.Scope) ([]task.Task, error)
	CreateTask(ctx context.Context, t task.Task) (task.Task, error)
	UpdateTask(ctx context.Context, id string, p task.Patch) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Tasks is the task snapshot of one scope with write-through mutations.
type Tasks struct {
	*Collection[task.Task]
	store TaskStore
}

// NewTasks returns an empty task snapshot for scope. Call Refresh to load it.
func NewTasks(s TaskStore, scope store.Scope) *Tasks {
	return &Tasks{
		Collection: NewCollection(store.TableTasks, scope, func(ctx context.Context) ([]task.Task, error) {
			return s.ListTasks(ctx, scope)
		}),
		store: s,
	}
}

// Task returns the snapshot copy of the task with id.
func (t *Tasks) Task(id string) (task.Task, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, tk := range t.items {
		if tk.ID == id {
			return tk, true
		}
	}
	return task.Task{}, false
}

// SetStatus changes a task's status in the snapshot only and returns the previous status.
// It is the optimistic half of a status change.
func (t *Tasks) SetStatus(id string, s task.Status) (task.Status, bool) {
	var (
		prev  task.Status
		found bool
	)
	t.mutate(func(items []task.Task) []task.Task {
		for i := range items {
			if items[i].ID == id {
				prev, found = items[i].Status, true
				items[i].Status = s
				break
			}
		}
		return items
	})
	return prev, found
}

// Create stores a new task in the snapshot's scope and re-fetches.
func (t *Tasks) Create(ctx context.Context, tk task.Task) (task.Task, error) {
	tk.WorkspaceID = t.scope.Workspace
	created, err := t.store.CreateTask(ctx, tk)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: create task: %w", ErrWriteFailure, err)
	}
	t.refreshAfterWrite(ctx)
	return created, nil
}

// Update applies p in the store and re-fetches.
func (t *Tasks) Update(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	updated, err := t.store.UpdateTask(ctx, id, p)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: update task %s: %w", ErrWriteFailure, id, err)
	}
	t.refreshAfterWrite(ctx)
	return updated, nil
}

// Delete removes the task from the store and re-fetches.
func (t *Tasks) Delete(ctx context.Context, id string) error {
	if err := t.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("%w: delete task %s: %w", ErrWriteFailure, id, err)
	}
	t.refreshAfterWrite(ctx)
	return nil
}

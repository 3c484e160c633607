// Package transition applies task status changes coming from a checkbox, an edit form or a
// kanban drag. Changes show in the session snapshot at once and are rolled back if the
// write fails.
package transition

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/taskflow/pkg/cache"
	"tableflip.dev/taskflow/pkg/task"
)

var (
	// ErrWriteFailure is returned when the store rejects the change. The snapshot has been
	// rolled back.
	ErrWriteFailure = cache.ErrWriteFailure
	// ErrUnknownTask is returned for a task that is not in the snapshot.
	ErrUnknownTask = errors.New("transition: unknown task")
)

// Board is the session snapshot a handler works on. *cache.Tasks implements it.
type Board interface {
	Task(id string) (task.Task, bool)
	// SetStatus changes the snapshot only and returns the previous status.
	SetStatus(id string, s task.Status) (task.Status, bool)
	// Update writes through to the store and re-fetches on success.
	Update(ctx context.Context, id string, p task.Patch) (task.Task, error)
}

// Handler validates and applies status changes.
type Handler struct {
	Board Board
	// OnError, when set, receives every failed change for transient display.
	OnError func(error)
}

// Change moves task id to the status named by raw. Anything outside todo, in_progress and
// done fails with task.ErrInvalidStatus before any write.
func (h *Handler) Change(ctx context.Context, id, raw string) error {
	s, err := task.ParseStatus(raw)
	if err != nil {
		return h.report(err)
	}
	return h.apply(ctx, id, s)
}

// Toggle maps a checkbox to a status: checked is done, unchecked is todo.
func (h *Handler) Toggle(ctx context.Context, id string, checked bool) error {
	s := task.StatusTodo
	if checked {
		s = task.StatusDone
	}
	return h.apply(ctx, id, s)
}

// Drop applies a kanban move. Dropping a task onto its own status writes nothing.
func (h *Handler) Drop(ctx context.Context, ev MoveEvent) error {
	if !ev.Status.Valid() {
		return h.report(fmt.Errorf("%w %q", task.ErrInvalidStatus, ev.Status))
	}
	current, ok := h.Board.Task(ev.TaskID)
	if !ok {
		return h.report(fmt.Errorf("%w %s", ErrUnknownTask, ev.TaskID))
	}
	if current.Status == ev.Status {
		return nil
	}
	return h.apply(ctx, ev.TaskID, ev.Status)
}

func (h *Handler) apply(ctx context.Context, id string, s task.Status) error {
	prev, ok := h.Board.SetStatus(id, s)
	if !ok {
		return h.report(fmt.Errorf("%w %s", ErrUnknownTask, id))
	}
	if _, err := h.Board.Update(ctx, id, task.StatusPatch(s)); err != nil {
		h.Board.SetStatus(id, prev)
		if !errors.Is(err, ErrWriteFailure) {
			err = fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
		return h.report(err)
	}
	return nil
}

func (h *Handler) report(err error) error {
	if h.OnError != nil {
		h.OnError(err)
	}
	return err
}

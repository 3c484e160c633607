package transition

import (
	"sync"

	"tableflip.dev/taskflow/pkg/task"
)

// MoveEvent asks for a task to move to a status.
type MoveEvent struct {
	TaskID string
	Status task.Status
}

// DragSource turns a drag gesture into a MoveEvent. OnDragEnd reports false when the drop
// does not produce a move.
type DragSource interface {
	OnDragStart(id string)
	OnDragEnd(overID string) (MoveEvent, bool)
}

// KanbanDrag is the DragSource of a kanban board. Drop targets are either a column,
// identified by its status, or another task.
type KanbanDrag struct {
	// Lookup finds a task on the board.
	Lookup func(id string) (task.Task, bool)

	mu     sync.Mutex
	active string
}

// OnDragStart records the dragged task.
func (k *KanbanDrag) OnDragStart(id string) {
	k.mu.Lock()
	k.active = id
	k.mu.Unlock()
}

// Active returns the dragged task, or "" when nothing is being dragged.
func (k *KanbanDrag) Active() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.active
}

// OnDragEnd resolves the drop target. A column yields its status; a task yields that
// task's status. Dropping on nothing, on the dragged task itself or on an unknown target
// yields no move.
func (k *KanbanDrag) OnDragEnd(overID string) (MoveEvent, bool) {
	k.mu.Lock()
	active := k.active
	k.active = ""
	k.mu.Unlock()

	if active == "" || overID == "" || overID == active {
		return MoveEvent{}, false
	}
	if s := task.Status(overID); s.Valid() {
		return MoveEvent{TaskID: active, Status: s}, true
	}
	if k.Lookup == nil {
		return MoveEvent{}, false
	}
	over, ok := k.Lookup(overID)
	if !ok {
		return MoveEvent{}, false
	}
	return MoveEvent{TaskID: active, Status: over.Status}, true
}

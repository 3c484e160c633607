package transition

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/taskflow/pkg/cache"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
)

// fakeBoard records writes and can fail them.
type fakeBoard struct {
	tasks    map[string]task.Task
	writes   int
	failWith error
}

func newFakeBoard(tasks ...task.Task) *fakeBoard {
	b := &fakeBoard{tasks: map[string]task.Task{}}
	for _, t := range tasks {
		b.tasks[t.ID] = t
	}
	return b
}

func (b *fakeBoard) Task(id string) (task.Task, bool) {
	t, ok := b.tasks[id]
	return t, ok
}

func (b *fakeBoard) SetStatus(id string, s task.Status) (task.Status, bool) {
	t, ok := b.tasks[id]
	if !ok {
		return "", false
	}
	prev := t.Status
	t.Status = s
	b.tasks[id] = t
	return prev, true
}

func (b *fakeBoard) Update(_ context.Context, id string, p task.Patch) (task.Task, error) {
	b.writes++
	if b.failWith != nil {
		return task.Task{}, b.failWith
	}
	t := p.Apply(b.tasks[id], b.tasks[id].UpdatedAt)
	b.tasks[id] = t
	return t, nil
}

func TestToggleCheckedIsDone(t *testing.T) {
	board := newFakeBoard(task.Task{ID: "1", Status: task.StatusInProgress})
	h := &Handler{Board: board}

	if err := h.Toggle(context.Background(), "1", true); err != nil {
		t.Fatal(err)
	}
	if got := board.tasks["1"].Status; got != task.StatusDone {
		t.Fatalf("checked: got %s", got)
	}

	if err := h.Toggle(context.Background(), "1", false); err != nil {
		t.Fatal(err)
	}
	if got := board.tasks["1"].Status; got != task.StatusTodo {
		t.Fatalf("unchecked: got %s", got)
	}
	if board.writes != 2 {
		t.Errorf("expected 2 writes, got %d", board.writes)
	}
}

func TestChangeRejectsInvalidStatus(t *testing.T) {
	board := newFakeBoard(task.Task{ID: "1", Status: task.StatusTodo})
	var reported error
	h := &Handler{Board: board, OnError: func(err error) { reported = err }}

	if err := h.Change(context.Background(), "1", "blocked"); !errors.Is(err, task.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if !errors.Is(reported, task.ErrInvalidStatus) {
		t.Errorf("OnError got %v", reported)
	}
	if board.writes != 0 || board.tasks["1"].Status != task.StatusTodo {
		t.Errorf("rejected change touched the board: %d writes, %s", board.writes, board.tasks["1"].Status)
	}
}

func TestChangeAcceptsFormValues(t *testing.T) {
	board := newFakeBoard(task.Task{ID: "1", Status: task.StatusTodo})
	h := &Handler{Board: board}

	if err := h.Change(context.Background(), "1", "in_progress"); err != nil {
		t.Fatal(err)
	}
	if got := board.tasks["1"].Status; got != task.StatusInProgress {
		t.Errorf("got %s", got)
	}
}

func TestDropSameStatusWritesNothing(t *testing.T) {
	board := newFakeBoard(task.Task{ID: "1", Status: task.StatusTodo})
	h := &Handler{Board: board}

	if err := h.Drop(context.Background(), MoveEvent{TaskID: "1", Status: task.StatusTodo}); err != nil {
		t.Fatal(err)
	}
	if board.writes != 0 {
		t.Errorf("expected no writes, got %d", board.writes)
	}
}

func TestDropMovesAcrossColumns(t *testing.T) {
	board := newFakeBoard(task.Task{ID: "1", Status: task.StatusTodo})
	h := &Handler{Board: board}

	if err := h.Drop(context.Background(), MoveEvent{TaskID: "1", Status: task.StatusDone}); err != nil {
		t.Fatal(err)
	}
	if board.tasks["1"].Status != task.StatusDone || board.writes != 1 {
		t.Fatalf("got %s after %d writes", board.tasks["1"].Status, board.writes)
	}

	if err := h.Drop(context.Background(), MoveEvent{TaskID: "missing", Status: task.StatusDone}); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
	if err := h.Drop(context.Background(), MoveEvent{TaskID: "1", Status: "archived"}); !errors.Is(err, task.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestWriteFailureRollsBack(t *testing.T) {
	board := newFakeBoard(task.Task{ID: "1", Status: task.StatusInProgress})
	board.failWith = errors.New("offline")
	var reported []error
	h := &Handler{Board: board, OnError: func(err error) { reported = append(reported, err) }}

	if err := h.Toggle(context.Background(), "1", true); !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
	if got := board.tasks["1"].Status; got != task.StatusInProgress {
		t.Errorf("optimistic change should be rolled back, got %s", got)
	}
	if len(reported) != 1 {
		t.Errorf("expected one reported error, got %d", len(reported))
	}
}

// recordingBoard remembers the snapshot status seen when the write starts.
type recordingBoard struct {
	*fakeBoard
	seen task.Status
}

func (b *recordingBoard) Update(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	b.seen = b.tasks[id].Status
	return b.fakeBoard.Update(ctx, id, patch)
}

func TestChangeIsOptimistic(t *testing.T) {
	board := &recordingBoard{fakeBoard: newFakeBoard(task.Task{ID: "1", Status: task.StatusTodo})}
	h := &Handler{Board: board}

	if err := h.Change(context.Background(), "1", "done"); err != nil {
		t.Fatal(err)
	}
	if board.seen != task.StatusDone {
		t.Errorf("snapshot showed %s while writing", board.seen)
	}
}

func TestHandlerWithCache(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory()
	tasks := cache.NewTasks(p, store.Private("u1"))
	created, err := tasks.Create(ctx, task.New("ship it", "u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	h := &Handler{Board: tasks}
	if err := h.Change(ctx, created.ID, "in-progress"); err != nil {
		t.Fatalf("change: %v", err)
	}
	stored, err := p.GetTask(ctx, created.ID)
	if err != nil || stored.Status != task.StatusInProgress {
		t.Fatalf("stored %s, %v", stored.Status, err)
	}

	if err := h.Change(ctx, created.ID, "nope"); err == nil {
		t.Fatal("expected an error")
	}
	stored, err = p.GetTask(ctx, created.ID)
	if err != nil || stored.Status != task.StatusInProgress {
		t.Fatalf("invalid status reached the store: %s, %v", stored.Status, err)
	}
}

func TestKanbanDrag(t *testing.T) {
	tasks := map[string]task.Task{
		"a": {ID: "a", Status: task.StatusTodo},
		"b": {ID: "b", Status: task.StatusDone},
	}
	drag := &KanbanDrag{Lookup: func(id string) (task.Task, bool) {
		t, ok := tasks[id]
		return t, ok
	}}
	var _ DragSource = drag

	drag.OnDragStart("a")
	if drag.Active() != "a" {
		t.Fatalf("active = %q", drag.Active())
	}
	ev, ok := drag.OnDragEnd("in_progress")
	if !ok || ev != (MoveEvent{TaskID: "a", Status: task.StatusInProgress}) {
		t.Fatalf("column drop = %+v %v", ev, ok)
	}
	if drag.Active() != "" {
		t.Errorf("drag should have ended")
	}

	drag.OnDragStart("a")
	if ev, ok = drag.OnDragEnd("b"); !ok || ev.Status != task.StatusDone {
		t.Errorf("dropping on a task uses its column, got %+v %v", ev, ok)
	}

	tests := map[string]string{
		"nothing": "",
		"itself":  "a",
	}
	for name, over := range tests {
		drag.OnDragStart("a")
		if _, ok := drag.OnDragEnd(over); ok {
			t.Errorf("drop on %s should produce no event", name)
		}
	}

	if _, ok := drag.OnDragEnd("done"); ok {
		t.Error("no drag in progress")
	}
}

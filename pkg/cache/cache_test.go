package cache

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
)

// fakeStore wraps an in-memory store and injects failures.
type fakeStore struct {
	store.Persistence

	mu       sync.Mutex
	listErr  error
	writeErr error
	lists    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{Persistence: store.NewMemory()}
}

func (f *fakeStore) ListTasks(ctx context.Context, scope store.Scope) ([]task.Task, error) {
	f.mu.Lock()
	f.lists++
	err := f.listErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Persistence.ListTasks(ctx, scope)
}

func (f *fakeStore) UpdateTask(ctx context.Context, id string, p task.Patch) (task.Task, error) {
	f.mu.Lock()
	err := f.writeErr
	f.mu.Unlock()
	if err != nil {
		return task.Task{}, err
	}
	return f.Persistence.UpdateTask(ctx, id, p)
}

func (f *fakeStore) setListErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

// eventually polls cond until it holds or two seconds pass.
func eventually(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRefreshLoadsSnapshot(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	if _, err := s.CreateTask(ctx, task.New("one", "u1")); err != nil {
		t.Fatal(err)
	}

	tasks := NewTasks(s, store.Private("u1"))
	if tasks.Loaded() {
		t.Fatal("loaded before the first fetch")
	}
	if err := tasks.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	if !tasks.Loaded() || len(tasks.Items()) != 1 {
		t.Fatalf("loaded %v with %d items", tasks.Loaded(), len(tasks.Items()))
	}
	select {
	case <-tasks.Changes():
	default:
		t.Fatal("expected a change signal")
	}
}

func TestFetchFailureKeepsStaleSnapshot(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	if _, err := s.CreateTask(ctx, task.New("one", "u1")); err != nil {
		t.Fatal(err)
	}

	tasks := NewTasks(s, store.Private("u1"))
	if err := tasks.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	s.setListErr(errors.New("network down"))
	if err := tasks.Refresh(ctx); !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected ErrFetchFailure, got %v", err)
	}
	if !errors.Is(tasks.Err(), ErrFetchFailure) {
		t.Errorf("Err() = %v", tasks.Err())
	}
	if len(tasks.Items()) != 1 {
		t.Errorf("stale data should stay visible, got %d items", len(tasks.Items()))
	}

	s.setListErr(nil)
	if err := tasks.Refresh(ctx); err != nil {
		t.Fatalf("refresh is the retry path: %v", err)
	}
	if tasks.Err() != nil {
		t.Errorf("Err() = %v after a good fetch", tasks.Err())
	}
}

func TestWritesRefetch(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	tasks := NewTasks(s, store.InWorkspace("w1"))

	created, err := tasks.Create(ctx, task.New("shared", "u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.WorkspaceID != "w1" {
		t.Errorf("create should stamp the snapshot's scope, got %q", created.WorkspaceID)
	}
	if len(tasks.Items()) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks.Items()))
	}

	if _, err := tasks.Update(ctx, created.ID, task.StatusPatch(task.StatusDone)); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok := tasks.Task(created.ID)
	if !ok || got.Status != task.StatusDone {
		t.Fatalf("snapshot has %+v", got)
	}

	if err := tasks.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(tasks.Items()) != 0 {
		t.Errorf("expected an empty snapshot, got %d", len(tasks.Items()))
	}
	if s.lists != 3 {
		t.Errorf("expected a fetch per write, got %d", s.lists)
	}
}

func TestWriteFailure(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	tasks := NewTasks(s, store.Private("u1"))
	created, err := tasks.Create(ctx, task.New("one", "u1"))
	if err != nil {
		t.Fatal(err)
	}

	s.writeErr = errors.New("permission denied")
	if _, err := tasks.Update(ctx, created.ID, task.StatusPatch(task.StatusDone)); !errors.Is(err, ErrWriteFailure) {
		t.Errorf("expected ErrWriteFailure, got %v", err)
	}

	err = tasks.Delete(ctx, "missing")
	if !errors.Is(err, ErrWriteFailure) || !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected a write failure wrapping ErrNotFound, got %v", err)
	}
}

func TestSetStatusIsLocal(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	tasks := NewTasks(s, store.Private("u1"))
	created, err := tasks.Create(ctx, task.New("one", "u1"))
	if err != nil {
		t.Fatal(err)
	}

	prev, ok := tasks.SetStatus(created.ID, task.StatusInProgress)
	if !ok || prev != task.StatusTodo {
		t.Fatalf("SetStatus = %s, %v", prev, ok)
	}

	local, _ := tasks.Task(created.ID)
	if local.Status != task.StatusInProgress {
		t.Errorf("snapshot has %s", local.Status)
	}
	stored, err := s.GetTask(ctx, created.ID)
	if err != nil || stored.Status != task.StatusTodo {
		t.Errorf("store should be untouched, got %s, %v", stored.Status, err)
	}

	if _, ok := tasks.SetStatus("missing", task.StatusDone); ok {
		t.Error("unknown task should not be set")
	}
}

// racingFetch returns a fetch whose first call blocks until release is closed and
// returns first; later calls return later immediately.
func racingFetch(release <-chan struct{}, first []int, later func() ([]int, error)) (func(context.Context) ([]int, error), func() int) {
	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context) ([]int, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			<-release
			return first, nil
		}
		return later()
	}
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
	return fetch, count
}

func TestStaleFetchDiscarded(t *testing.T) {
	release := make(chan struct{})
	fetch, calls := racingFetch(release, []int{1}, func() ([]int, error) { return []int{2}, nil })
	c := NewCollection("things", store.Private(""), fetch)

	done := make(chan error)
	go func() { done <- c.Refresh(context.Background()) }()
	eventually(t, func() bool { return calls() == 1 }, "the first fetch to start")

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := c.Items(); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("the newer fetch should win, got %v", got)
	}
}

func TestStaleFetchDiscardedAfterNewerFailure(t *testing.T) {
	release := make(chan struct{})
	fetch, calls := racingFetch(release, []int{1}, func() ([]int, error) { return nil, errors.New("timeout") })
	c := NewCollection("things", store.Private(""), fetch)

	done := make(chan error)
	go func() { done <- c.Refresh(context.Background()) }()
	eventually(t, func() bool { return calls() == 1 }, "the first fetch to start")

	if err := c.Refresh(context.Background()); !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected ErrFetchFailure, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := c.Items(); len(got) != 0 || c.Loaded() {
		t.Errorf("an older fetch must not land after a newer one, got %v", got)
	}
	if !errors.Is(c.Err(), ErrFetchFailure) {
		t.Errorf("the newer failure should stay visible, got %v", c.Err())
	}
}

func TestRunRefreshesOnWorkspaceEvents(t *testing.T) {
	s := newFakeStore()
	tasks := NewTasks(s, store.InWorkspace("w1"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = tasks.Run(ctx, s) }()
	// Wait for the subscription before writing behind the cache's back.
	time.Sleep(20 * time.Millisecond)

	tk := task.New("from a teammate", "u2")
	tk.WorkspaceID = "w1"
	if _, err := s.CreateTask(context.Background(), tk); err != nil {
		t.Fatal(err)
	}

	eventually(t, func() bool { return len(tasks.Items()) == 1 }, "the teammate's task")
}

func TestRunSkipsPrivateScope(t *testing.T) {
	s := newFakeStore()
	tasks := NewTasks(s, store.Private("u1"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := tasks.Run(ctx, s); err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Error("private scopes should return without subscribing")
	}
}

func TestJournalCollections(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	if _, err := s.CreateEntry(ctx, journal.NewEntry("note", journal.TypeNote, "u1")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateThought(ctx, journal.NewThought("idea", journal.ThoughtPlain, "w1", "u1")); err != nil {
		t.Fatal(err)
	}

	entries := NewEntries(s, store.Private("u1"))
	if err := entries.Refresh(ctx); err != nil || len(entries.Items()) != 1 {
		t.Fatalf("entries: %d, %v", len(entries.Items()), err)
	}

	thoughts := NewThoughts(s, "w1")
	if err := thoughts.Refresh(ctx); err != nil || len(thoughts.Items()) != 1 {
		t.Fatalf("thoughts: %d, %v", len(thoughts.Items()), err)
	}
	if thoughts.Scope().Workspace != "w1" {
		t.Errorf("scope = %s", thoughts.Scope())
	}
}

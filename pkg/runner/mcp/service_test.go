package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/transition"
)

func newTestService() *Service {
	return NewService(&app.Service{
		Persistence: store.NewMemory(),
		Accounts:    account.Static{UserID: "alice", DisplayName: "Alice"},
		Now:         func() time.Time { return time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC) },
	})
}

func TestServiceCreateTaskDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, err := svc.CreateTask(ctx, "", app.TaskInput{Title: "Test item"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.Status != task.StatusTodo {
		t.Fatalf("expected todo, got %s", created.Status)
	}
	if created.Priority != task.PriorityMedium {
		t.Fatalf("expected medium priority, got %s", created.Priority)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestServiceChangeStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, err := svc.CreateTask(ctx, "", app.TaskInput{Title: "Finish report"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	moved, err := svc.ChangeStatus(ctx, "", created.ID[:8], "in_progress")
	if err != nil {
		t.Fatalf("ChangeStatus failed: %v", err)
	}
	if moved.Status != task.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", moved.Status)
	}

	if _, err := svc.ChangeStatus(ctx, "", created.ID, "blocked"); !errors.Is(err, task.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	done, err := svc.ToggleTask(ctx, "", created.ID, true)
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if done.Status != task.StatusDone {
		t.Fatalf("expected done, got %s", done.Status)
	}
}

func TestServiceViews(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	for _, in := range []app.TaskInput{
		{Title: "standup", DueDate: "2024-03-13", DueTime: "09:15"},
		{Title: "review", DueDate: "2024-03-13"},
		{Title: "later", DueDate: "2024-03-30"},
		{Title: "whenever"},
	} {
		if _, err := svc.CreateTask(ctx, "", in); err != nil {
			t.Fatalf("CreateTask %s: %v", in.Title, err)
		}
	}

	day, err := svc.Day(ctx, "", "")
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if day.Date != "2024-03-13" || len(day.Slots) != 1 || day.Slots[0].Hour != 9 {
		t.Fatalf("unexpected day: %+v", day)
	}
	if len(day.AllDay) != 1 || len(day.NoDate) != 1 {
		t.Fatalf("unexpected day buckets: %+v", day)
	}

	week, err := svc.Week(ctx, "", "2024-03-13")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if week.Start != "2024-03-11" || week.End != "2024-03-17" || len(week.Days) != 7 {
		t.Fatalf("unexpected week: %+v", week)
	}
	if len(week.Days[2].Tasks) != 2 {
		t.Fatalf("wednesday should hold 2 tasks, got %d", len(week.Days[2].Tasks))
	}

	month, err := svc.Month(ctx, "", "2024-03-01")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if month.Month != "2024-03" || len(month.Cells)%7 != 0 {
		t.Fatalf("unexpected month: %s with %d cells", month.Month, len(month.Cells))
	}
	if month.Cells[0].Date != "2024-02-26" || *month.Cells[0].InMonth {
		t.Fatalf("grid should start on the Monday before the first: %+v", month.Cells[0])
	}

	if _, err := svc.Month(ctx, "", "03/01/2024"); err == nil {
		t.Fatal("expected invalid date error")
	}

	cols, err := svc.Kanban(ctx, "")
	if err != nil {
		t.Fatalf("Kanban: %v", err)
	}
	if len(cols) != 3 || len(cols[0].Tasks) != 4 {
		t.Fatalf("unexpected kanban: %+v", cols)
	}
}

func TestServiceDeleteUnknown(t *testing.T) {
	svc := newTestService()
	if _, err := svc.DeleteTask(context.Background(), "", "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ToggleTask(context.Background(), "", "nope", true); errors.Is(err, transition.ErrWriteFailure) {
		t.Fatalf("unknown ids should not reach the store: %v", err)
	}
}

func TestPatchFromArguments(t *testing.T) {
	p, err := patchFromArguments(map[string]any{"title": "new", "due_date": ""})
	if err != nil {
		t.Fatal(err)
	}
	if p.Title == nil || *p.Title != "new" {
		t.Fatalf("title not set: %+v", p)
	}
	if p.DueDate == nil || *p.DueDate != "" {
		t.Fatalf("due date should be cleared: %+v", p)
	}
	if p.Priority != nil || p.Description != nil {
		t.Fatalf("omitted fields should stay nil: %+v", p)
	}
	if _, err := patchFromArguments(map[string]any{"priority": "soon"}); err == nil {
		t.Fatal("expected invalid priority")
	}
}

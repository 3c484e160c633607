package board

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/ui/theme"
	"tableflip.dev/taskflow/pkg/view"
)

var today = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

func newModel(t *testing.T, kind view.Kind, titles ...string) Model {
	t.Helper()
	ctx := context.Background()
	svc := &app.Service{
		Persistence: store.NewMemory(),
		Accounts:    account.Static{UserID: "ada", DisplayName: "Ada"},
		Now:         func() time.Time { return today },
	}
	tasks, err := svc.Tasks(ctx, store.Private("ada"))
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	for _, title := range titles {
		if _, err := svc.AddTask(ctx, tasks, app.TaskInput{Title: title, DueDate: "2024-03-13"}); err != nil {
			t.Fatalf("add %q: %v", title, err)
		}
	}
	machine, err := svc.NewView(ctx, kind)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	return New(ctx, svc, Options{Label: "Private", Tasks: tasks, View: machine, Theme: theme.Default()})
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "esc":
			msg = tea.KeyPressMsg{Code: tea.KeyEscape}
		default:
			msg = tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestToggleCompletesSelectedTask(t *testing.T) {
	m := newModel(t, view.KindList, "Write report")
	m = press(m, "x")

	items := m.tasks.Items()
	if len(items) != 1 || items[0].Status != task.StatusDone {
		t.Fatalf("expected the task to be done, got %+v", items)
	}
	m = press(m, "x")
	if got := m.tasks.Items()[0].Status; got != task.StatusTodo {
		t.Fatalf("expected todo after second toggle, got %s", got)
	}
}

func TestAddCommand(t *testing.T) {
	m := newModel(t, view.KindDay)
	m.command("add Call the bank")

	items := m.tasks.Items()
	if len(items) != 1 {
		t.Fatalf("expected one task, got %d", len(items))
	}
	if items[0].Title != "Call the bank" || items[0].DueDate != "2024-03-13" {
		t.Errorf("unexpected task %+v", items[0])
	}
}

func TestQuitCommand(t *testing.T) {
	m := newModel(t, view.KindList)
	if cmd := m.command("q"); cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestKanbanMoveCard(t *testing.T) {
	m := newModel(t, view.KindList, "Ship it")
	m = press(m, "2")
	if m.state.Kind != view.KindKanban {
		t.Fatalf("expected kanban, got %s", m.state.Kind)
	}

	m = press(m, "m", "l", "m")
	if got := m.tasks.Items()[0].Status; got != task.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}
	if m.drag.Active() != "" {
		t.Error("drag should have ended")
	}
}

func TestKanbanMoveCancelled(t *testing.T) {
	m := newModel(t, view.KindKanban, "Ship it")
	m = press(m, "m", "l", "esc")
	if got := m.tasks.Items()[0].Status; got != task.StatusTodo {
		t.Fatalf("expected todo, got %s", got)
	}
	if m.column != 0 {
		t.Errorf("expected focus back on the todo column, got %d", m.column)
	}
}

func TestToggleModeFallsBackToDay(t *testing.T) {
	m := newModel(t, view.KindList)
	m = press(m, "M")

	if m.state.Mode != view.ModeTasks || m.state.Kind != view.KindDay {
		t.Fatalf("unexpected state %+v", m.state)
	}
	prof, err := m.svc.Profile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if prof.AppMode != view.ModeTasks {
		t.Errorf("expected the mode to be saved, got %s", prof.AppMode)
	}

	m = press(m, "2")
	if !m.failed || m.state.Kind != view.KindDay {
		t.Errorf("kanban should not be offered in tasks mode: %q", m.status)
	}
}

func TestMonthEnterOpensDay(t *testing.T) {
	m := newModel(t, view.KindMonth)
	m = press(m, "l", "enter")

	if m.state.Kind != view.KindDay {
		t.Fatalf("expected day view, got %s", m.state.Kind)
	}
	if got := m.state.Date.Format("2006-01-02"); got != "2024-03-14" {
		t.Errorf("expected 2024-03-14, got %s", got)
	}
}

func TestNextPrevMoveDate(t *testing.T) {
	m := newModel(t, view.KindWeek)
	m = press(m, "n")
	if got := m.state.Date.Format("2006-01-02"); got != "2024-03-20" {
		t.Fatalf("expected 2024-03-20, got %s", got)
	}
	m = press(m, "p", "p")
	if got := m.state.Date.Format("2006-01-02"); got != "2024-03-06" {
		t.Fatalf("expected 2024-03-06, got %s", got)
	}
}

func TestViewRendersHeaderAndTasks(t *testing.T) {
	m := newModel(t, view.KindList, "Write report")
	out := m.View()
	for _, want := range []string{"Private", "2 kanban", "5 month", "Ada", "Write report", "[NORMAL]"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

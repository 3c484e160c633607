package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/task"
)

func plain() Options {
	return Options{
		HeaderStyle:   lipgloss.NewStyle(),
		EmptyStyle:    lipgloss.NewStyle(),
		EntryStyle:    lipgloss.NewStyle(),
		OutsideStyle:  lipgloss.NewStyle(),
		TodayStyle:    lipgloss.NewStyle(),
		SelectedStyle: lipgloss.NewStyle(),
		ShowHeader:    true,
	}
}

func TestRenderMondayFirst(t *testing.T) {
	// March 2024 starts on a Friday.
	m := bucket.ByMonth(nil, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	out := Render(m, plain())
	lines := strings.Split(out, "\n")
	if lines[0] != "Mo Tu We Th Fr Sa Su" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 1+len(m.Weeks()) {
		t.Fatalf("expected %d lines, got %d", 1+len(m.Weeks()), len(lines))
	}
	first := lines[1]
	if !strings.HasPrefix(first, strings.Repeat("   ", 4)+"①") {
		t.Fatalf("first of March should sit under Friday: %q", first)
	}
	if !strings.Contains(lines[len(lines)-1], "㉛") {
		t.Fatalf("last row should hold the 31st: %q", lines[len(lines)-1])
	}
}

func TestRenderZeroMonth(t *testing.T) {
	if got := Render(bucket.Month{}, plain()); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestGridPreview(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Title: "alpha", DueDate: "2024-03-11"},
		{ID: "2", Title: "beta", DueDate: "2024-03-11"},
		{ID: "3", Title: "gamma", DueDate: "2024-03-11"},
	}
	m := bucket.ByMonth(tasks, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	out := Grid(m, GridOptions{Options: plain(), CellWidth: 10, Preview: 2})
	for _, want := range []string{"Mon", "Sun", "alpha", "beta", "+1 more"} {
		if !strings.Contains(out, want) {
			t.Errorf("grid missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gamma") {
		t.Errorf("third title should be folded into the overflow line:\n%s", out)
	}
}

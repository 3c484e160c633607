package bucket

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"tableflip.dev/taskflow/pkg/task"
)

func on(raw string) time.Time {
	t, err := time.Parse(task.DateLayout, raw)
	if err != nil {
		panic(err)
	}
	return t
}

// ids joins the task IDs with commas.
func ids(tasks []task.Task) string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return strings.Join(out, ",")
}

func sample() []task.Task {
	return []task.Task{
		{ID: "1", Title: "standup", Status: task.StatusTodo, DueDate: "2024-03-11", DueTime: "09:30"},
		{ID: "2", Title: "review", Status: task.StatusInProgress, DueDate: "2024-03-11"},
		{ID: "3", Title: "someday", Status: task.StatusTodo},
	}
}

func TestByDay(t *testing.T) {
	day := ByDay(sample(), on("2024-03-11"))

	if day.Date != "2024-03-11" {
		t.Fatalf("date = %s", day.Date)
	}
	if got := ids(day.Hours[9]); got != "1" {
		t.Errorf("09:00 = %q", got)
	}
	if got := ids(day.AllDay); got != "2" {
		t.Errorf("all day = %q", got)
	}
	if got := ids(day.NoDate); got != "3" {
		t.Errorf("no date = %q", got)
	}
	if day.Len() != 2 {
		t.Errorf("len = %d", day.Len())
	}

	slots := day.Slots()
	if len(slots) != 1 || slots[0].Hour != 9 {
		t.Fatalf("expected one slot at 9, got %+v", slots)
	}
}

func TestByDayOtherDateExcludesScheduled(t *testing.T) {
	day := ByDay(sample(), on("2024-03-12"))

	if day.Len() != 0 || len(day.Slots()) != 0 {
		t.Fatalf("expected an empty day, got %+v", day)
	}
	if got := ids(day.NoDate); got != "3" {
		t.Errorf("unscheduled tasks show under every date, got %q", got)
	}
}

func TestByDayEdgeCases(t *testing.T) {
	tasks := []task.Task{
		{ID: "time-no-date", DueTime: "10:00", Status: task.StatusTodo},
		{ID: "malformed-date", DueDate: "2024-3-11", Status: task.StatusTodo},
		{ID: "bad-time", DueDate: "2024-03-11", DueTime: "25:00", Status: task.StatusTodo},
		{ID: "late", DueDate: "2024-03-11", DueTime: "23:59:00", Status: task.StatusTodo},
		{ID: "early-a", DueDate: "2024-03-11", DueTime: "00:15", Status: task.StatusTodo},
		{ID: "early-b", DueDate: "2024-03-11", DueTime: "00:45", Status: task.StatusDone},
	}
	day := ByDay(tasks, on("2024-03-11"))

	tests := map[string]struct {
		got, want string
	}{
		"no date": {ids(day.NoDate), "time-no-date,malformed-date"},
		"all day": {ids(day.AllDay), "bad-time"},
		"23:00":   {ids(day.Hours[23]), "late"},
		"00:00":   {ids(day.Hours[0]), "early-a,early-b"},
	}
	for name, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s: got %q, want %q", name, tc.got, tc.want)
		}
	}
}

func TestByDayIgnoresReferenceZone(t *testing.T) {
	ref := time.Date(2024, 3, 11, 23, 0, 0, 0, time.FixedZone("west", -10*60*60))
	day := ByDay(sample(), ref)
	if day.Date != "2024-03-11" || day.Len() != 2 {
		t.Fatalf("unexpected day %s with %d tasks", day.Date, day.Len())
	}
}

func TestByWeek(t *testing.T) {
	week := ByWeek(sample(), on("2024-03-13"))

	if week.Days[0].Date != "2024-03-11" || week.Days[6].Date != "2024-03-17" {
		t.Fatalf("week runs %s to %s", week.Days[0].Date, week.Days[6].Date)
	}
	if week.Start.Weekday() != time.Monday || week.End.Weekday() != time.Sunday {
		t.Errorf("week bounds %s to %s", week.Start.Weekday(), week.End.Weekday())
	}
	if got := ids(week.Days[0].Tasks); got != "1,2" {
		t.Errorf("monday = %q", got)
	}
	for _, d := range week.Days {
		for _, tk := range d.Tasks {
			if tk.ID == "3" {
				t.Errorf("undated task on %s", d.Date)
			}
		}
	}
}

func TestByWeekBounds(t *testing.T) {
	for _, raw := range []string{"2024-03-10", "2024-03-11", "2024-12-31", "2025-01-01", "2024-02-29"} {
		ref := on(raw)
		week := ByWeek(nil, ref)
		first, _ := week.Days[0].Date.Time()
		last, _ := week.Days[6].Date.Time()

		if first.Weekday() != time.Monday || last.Weekday() != time.Sunday {
			t.Errorf("%s: week runs %s to %s", raw, first.Weekday(), last.Weekday())
		}
		if first.After(ref) || last.Before(ref) {
			t.Errorf("%s: week %s..%s does not contain the date", raw, first, last)
		}
	}
}

func TestByMonth(t *testing.T) {
	tasks := append(sample(),
		task.Task{ID: "4", Status: task.StatusTodo, DueDate: "2024-02-26"},
		task.Task{ID: "5", Status: task.StatusTodo, DueDate: "2024-04-01"},
	)
	month := ByMonth(tasks, on("2024-03-20"))

	if len(month.Cells) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(month.Cells))
	}
	first, last := month.Cells[0], month.Cells[len(month.Cells)-1]
	if first.Date != "2024-02-26" || last.Date != "2024-03-31" {
		t.Errorf("grid runs %s to %s", first.Date, last.Date)
	}
	if first.Day.Weekday() != time.Monday || last.Day.Weekday() != time.Sunday {
		t.Errorf("grid runs %s to %s", first.Day.Weekday(), last.Day.Weekday())
	}
	if first.InMonth || !last.InMonth {
		t.Errorf("in month flags: first %v, last %v", first.InMonth, last.InMonth)
	}
	if got := ids(first.Tasks); got != "4" {
		t.Errorf("leading days still carry their tasks, got %q", got)
	}

	inMonth := 0
	for _, c := range month.Cells {
		if c.InMonth {
			inMonth++
		}
		for _, tk := range c.Tasks {
			if tk.ID == "3" || tk.ID == "5" {
				t.Errorf("task %s should not be on %s", tk.ID, c.Date)
			}
		}
	}
	if inMonth != 31 {
		t.Errorf("expected 31 days in March, got %d", inMonth)
	}
	if n := len(month.Weeks()); n != 5 {
		t.Errorf("expected 5 weeks, got %d", n)
	}
}

func TestByMonthContainsEveryDay(t *testing.T) {
	for _, raw := range []string{"2021-02-01", "2024-02-15", "2024-09-30", "2023-07-04", "2026-03-01"} {
		ref := on(raw)
		month := ByMonth(nil, ref)
		n := len(month.Cells)
		if n%7 != 0 || n > 42 {
			t.Fatalf("%s: %d cells", raw, n)
		}
		if month.Cells[0].Day.Weekday() != time.Monday || month.Cells[n-1].Day.Weekday() != time.Sunday {
			t.Errorf("%s: grid is not Monday to Sunday", raw)
		}

		seen := map[int]bool{}
		for _, c := range month.Cells {
			if c.InMonth {
				seen[c.Day.Day()] = true
			}
		}
		if want := time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(); len(seen) != want {
			t.Errorf("%s: saw %d days, want %d", raw, len(seen), want)
		}
	}
}

func TestCellPreview(t *testing.T) {
	var tasks []task.Task
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		tasks = append(tasks, task.Task{ID: id, Status: task.StatusTodo, DueDate: "2024-03-05"})
	}
	month := ByMonth(tasks, on("2024-03-05"))

	var cell Cell
	for _, c := range month.Cells {
		if c.Date == "2024-03-05" {
			cell = c
		}
	}
	shown, more := cell.Preview(2)
	if ids(shown) != "a,b" || more != 3 {
		t.Errorf("preview(2) = %q +%d", ids(shown), more)
	}
	if len(cell.Tasks) != 5 {
		t.Errorf("preview never truncates the bucket, got %d", len(cell.Tasks))
	}

	shown, more = cell.Preview(10)
	if len(shown) != 5 || more != 0 {
		t.Errorf("preview(10) = %d +%d", len(shown), more)
	}
}

func TestByStatus(t *testing.T) {
	tasks := []task.Task{
		{ID: "d1", Status: task.StatusDone},
		{ID: "t1", Status: task.StatusTodo},
		{ID: "p1", Status: task.StatusInProgress},
		{ID: "t2", Status: task.StatusTodo},
		{ID: "x", Status: "archived"},
	}
	groups := ByStatus(tasks)

	want := []struct {
		status task.Status
		ids    string
	}{
		{task.StatusTodo, "t1,t2"},
		{task.StatusInProgress, "p1"},
		{task.StatusDone, "d1"},
	}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, w := range want {
		if groups[i].Status != w.status || ids(groups[i].Tasks) != w.ids {
			t.Errorf("group %d = %s %q, want %s %q", i, groups[i].Status, ids(groups[i].Tasks), w.status, w.ids)
		}
	}

	empty := ByStatus(nil)
	if len(empty) != 3 || len(empty[0].Tasks) != 0 {
		t.Errorf("expected three empty columns, got %+v", empty)
	}
}

func TestBucketersArePure(t *testing.T) {
	tasks := sample()
	ref := on("2024-03-11")

	if !reflect.DeepEqual(ByDay(tasks, ref), ByDay(tasks, ref)) {
		t.Error("ByDay differs between calls")
	}
	if !reflect.DeepEqual(ByWeek(tasks, ref), ByWeek(tasks, ref)) {
		t.Error("ByWeek differs between calls")
	}
	if !reflect.DeepEqual(ByMonth(tasks, ref), ByMonth(tasks, ref)) {
		t.Error("ByMonth differs between calls")
	}
	if !reflect.DeepEqual(ByStatus(tasks), ByStatus(tasks)) {
		t.Error("ByStatus differs between calls")
	}
	if !reflect.DeepEqual(sample(), tasks) {
		t.Error("input was modified")
	}
}

func TestCount(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Status: task.StatusTodo, DueDate: "2024-03-01"},
		{ID: "2", Status: task.StatusDone, DueDate: "2024-03-01"},
		{ID: "3", Status: task.StatusInProgress, DueDate: "2024-03-20"},
		{ID: "4", Status: task.StatusTodo},
	}
	s := Count(tasks, on("2024-03-11"))

	if want := (Stats{Total: 4, Todo: 2, InProgress: 1, Done: 1, Overdue: 1}); s != want {
		t.Fatalf("got %+v, want %+v", s, want)
	}
	if s.Percent() != 25 {
		t.Errorf("percent = %d", s.Percent())
	}
	if (Stats{}).Percent() != 0 {
		t.Error("empty stats should be 0%")
	}
}

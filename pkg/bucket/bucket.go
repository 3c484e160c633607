// Package bucket groups tasks the way each view renders them: by hour of a day, by day of a
// week, by cell of a month grid and by status. Every function is pure; calling one twice
// with the same input yields the same buckets in the same order.
//
// Due dates are compared as YYYY-MM-DD strings. A task whose due date is missing or
// malformed is unscheduled: it shows in the day view's no-date bucket under every
// reference date and never in a week or month cell. A due time without a due date is
// ignored.
package bucket

import (
	"time"

	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// HoursPerDay is the number of hour slots in a day bucket.
const HoursPerDay = 24

// Day is the day view of a reference date.
type Day struct {
	Date task.Date `json:"date" yaml:"date"`
	// Hours holds tasks due on Date with a due time, indexed by hour.
	Hours [HoursPerDay][]task.Task `json:"hours" yaml:"hours"`
	// AllDay holds tasks due on Date without a usable due time.
	AllDay []task.Task `json:"all_day" yaml:"all_day"`
	// NoDate holds unscheduled tasks regardless of Date.
	NoDate []task.Task `json:"no_date" yaml:"no_date"`
}

// Slot is one non-empty hour of a Day.
type Slot struct {
	Hour  int
	Tasks []task.Task
}

// Slots returns the non-empty hours in ascending order.
func (d Day) Slots() []Slot {
	var slots []Slot
	for h, tasks := range d.Hours {
		if len(tasks) > 0 {
			slots = append(slots, Slot{Hour: h, Tasks: tasks})
		}
	}
	return slots
}

// Len counts the tasks due on Date.
func (d Day) Len() int {
	n := len(d.AllDay)
	for _, tasks := range d.Hours {
		n += len(tasks)
	}
	return n
}

// ByDay buckets tasks for the calendar day of on.
func ByDay(tasks []task.Task, on time.Time) Day {
	day := Day{Date: task.DateOf(on)}
	for _, t := range tasks {
		if !t.Scheduled() {
			day.NoDate = append(day.NoDate, t)
			continue
		}
		if t.DueDate != day.Date {
			continue
		}
		if t.DueTime != "" {
			if h, ok := t.DueTime.Hour(); ok {
				day.Hours[h] = append(day.Hours[h], t)
				continue
			}
		}
		day.AllDay = append(day.AllDay, t)
	}
	return day
}

// DayTasks is the set of tasks due on a single calendar day.
type DayTasks struct {
	Day   time.Time   `json:"-" yaml:"-"`
	Date  task.Date   `json:"date" yaml:"date"`
	Tasks []task.Task `json:"tasks" yaml:"tasks"`
}

// Week is the Monday to Sunday window around a reference date.
type Week struct {
	Start time.Time   `json:"start" yaml:"start"`
	End   time.Time   `json:"end" yaml:"end"`
	Days  [7]DayTasks `json:"days" yaml:"days"`
}

// ByWeek buckets tasks into the seven days of the week containing on. The week starts on
// Monday.
func ByWeek(tasks []task.Task, on time.Time) Week {
	start := timeutil.WeekStart(on)
	w := Week{Start: start, End: timeutil.WeekEnd(on)}
	due := byDueDate(tasks)
	for i := range w.Days {
		d := start.AddDate(0, 0, i)
		key := task.DateOf(d)
		w.Days[i] = DayTasks{Day: d, Date: key, Tasks: due[key]}
	}
	return w
}

// Cell is one square of a month grid.
type Cell struct {
	DayTasks `yaml:",inline"`
	// InMonth is false for the leading and trailing days of neighbouring months.
	InMonth bool `json:"in_month" yaml:"in_month"`
}

// Preview returns at most limit tasks for display and the number left out. The cell's
// Tasks are never truncated.
func (c Cell) Preview(limit int) ([]task.Task, int) {
	if limit < 0 {
		limit = 0
	}
	if len(c.Tasks) <= limit {
		return c.Tasks, 0
	}
	return c.Tasks[:limit], len(c.Tasks) - limit
}

// Month is a Monday-first calendar grid covering every day of a month.
type Month struct {
	Month time.Time `json:"month" yaml:"month"`
	Cells []Cell    `json:"cells" yaml:"cells"`
}

// Weeks splits the grid into rows of seven cells.
func (m Month) Weeks() [][]Cell {
	rows := make([][]Cell, 0, len(m.Cells)/7)
	for i := 0; i+7 <= len(m.Cells); i += 7 {
		rows = append(rows, m.Cells[i:i+7])
	}
	return rows
}

// ByMonth buckets tasks into the grid for the month containing on. The grid runs from the
// Monday on or before the first to the Sunday on or after the last day.
func ByMonth(tasks []task.Task, on time.Time) Month {
	first, last := timeutil.MonthGrid(on)
	m := Month{Month: timeutil.MonthStart(on)}
	due := byDueDate(tasks)
	for _, d := range timeutil.Days(first, last) {
		key := task.DateOf(d)
		m.Cells = append(m.Cells, Cell{
			DayTasks: DayTasks{Day: d, Date: key, Tasks: due[key]},
			InMonth:  d.Month() == m.Month.Month(),
		})
	}
	return m
}

// Group is the set of tasks sharing a status.
type Group struct {
	Status task.Status `json:"status" yaml:"status"`
	Tasks  []task.Task `json:"tasks" yaml:"tasks"`
}

// ByStatus returns the todo, in_progress and done groups in that order. Tasks with any
// other status are left out.
func ByStatus(tasks []task.Task) []Group {
	statuses := task.Statuses()
	groups := make([]Group, len(statuses))
	index := make(map[task.Status]int, len(statuses))
	for i, s := range statuses {
		groups[i].Status = s
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			groups[i].Tasks = append(groups[i].Tasks, t)
		}
	}
	return groups
}

func byDueDate(tasks []task.Task) map[task.Date][]task.Task {
	due := make(map[task.Date][]task.Task)
	for _, t := range tasks {
		if t.Scheduled() {
			due[t.DueDate] = append(due[t.DueDate], t)
		}
	}
	return due
}

package printers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/glyph"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/timeutil"
	"tableflip.dev/taskflow/pkg/ui/calendar"
)

// Day prints the 24 hour slots of a day, then the all-day and unscheduled tasks. Empty
// hours are printed faint so the day keeps its shape.
func (pp *PrettyPrint) Day(d bucket.Day) {
	f := color.New(color.Faint)
	h := color.New(color.Bold)

	when, _ := d.Date.Time()
	pp.TitleWithCount(when.Format("Monday, January 2 2006"), d.Len())

	for hour, tasks := range d.Hours {
		label := fmt.Sprintf("%02d:00", hour)
		if len(tasks) == 0 {
			if pp.ShowID {
				_, _ = f.Fprint(pp.out(), spacing)
			}
			_, _ = f.Fprintln(pp.out(), label)
			continue
		}
		if pp.ShowID {
			_, _ = h.Fprint(pp.out(), spacing)
		}
		_, _ = h.Fprintln(pp.out(), label)
		for _, t := range tasks {
			pp.Task(t, false)
		}
	}
	pp.NewLine()

	pp.Title("All day")
	pp.Tasks(d.AllDay...)

	pp.Title("No date")
	pp.Tasks(d.NoDate...)
}

// Week prints the seven days of a week, Monday first.
func (pp *PrettyPrint) Week(w bucket.Week) {
	b := color.New(color.Bold)
	u := color.New(color.Bold, color.Underline)
	f := color.New(color.Faint, color.Italic)

	pp.Title(fmt.Sprintf("Week of %s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2 2006")))
	for _, d := range w.Days {
		heading := b
		if timeutil.SameDay(d.Day, pp.today()) {
			heading = u
		}
		if pp.ShowID {
			_, _ = heading.Fprint(pp.out(), spacing)
		}
		_, _ = heading.Fprint(pp.out(), d.Day.Format("Mon Jan 2"))
		_, _ = f.Fprintf(pp.out(), " (%d)\n", len(d.Tasks))
		for _, t := range d.Tasks {
			pp.Task(t, false)
		}
	}
	pp.NewLine()
}

// Month prints the month grid with a preview of titles per day.
func (pp *PrettyPrint) Month(m bucket.Month) {
	pp.Title(m.Month.Format("January 2006"))

	preview := pp.Preview
	if preview <= 0 {
		preview = 2
	}
	opts := calendar.GridOptions{
		Options:   calendar.DefaultOptions(pp.today()),
		CellWidth: (pp.width() - 6) / 7,
		Preview:   preview,
		Title: func(t task.Task) string {
			return glyph.Status(t.Status).String() + " " + t.Title
		},
	}
	_, _ = fmt.Fprintln(pp.out(), calendar.Grid(m, opts))
	pp.NewLine()
}

// MiniMonth prints the compact calendar.
func (pp *PrettyPrint) MiniMonth(m bucket.Month) {
	_, _ = fmt.Fprintln(pp.out(), calendar.Render(m, calendar.DefaultOptions(pp.today())))
	pp.NewLine()
}

var (
	columnFrom = mustHex("#6C8EBF")
	columnTo   = mustHex("#59B36B")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ColumnColor returns the heading color of the i-th of n kanban columns, blending from
// the first column's blue to the last column's green.
func ColumnColor(i, n int) string {
	if n <= 1 {
		return columnFrom.Hex()
	}
	return columnFrom.BlendLab(columnTo, float64(i)/float64(n-1)).Clamped().Hex()
}

// Kanban prints the status groups as side-by-side columns.
func (pp *PrettyPrint) Kanban(groups []bucket.Group) {
	width := (pp.width() - 2*(len(groups)-1)) / max(len(groups), 1)
	cols := make([]string, 0, len(groups))
	for i, g := range groups {
		head := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColumnColor(i, len(groups)))).
			Render(fmt.Sprintf("%s (%d)", g.Status.Label(), len(g.Tasks)))

		lines := []string{head, strings.Repeat("─", width)}
		for _, t := range g.Tasks {
			line := glyph.Priority(t.Priority).String() + " " + t.Title
			if pp.ShowID && len(t.ID) >= ShortID {
				line = t.ID[:ShortID] + " " + line
			}
			lines = append(lines, lipgloss.NewStyle().Width(width).Render(line))
		}
		if len(g.Tasks) == 0 {
			lines = append(lines, lipgloss.NewStyle().Faint(true).Italic(true).Render("none"))
		}
		cols = append(cols, lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n")))
		if i < len(groups)-1 {
			cols = append(cols, "  ")
		}
	}
	_, _ = fmt.Fprintln(pp.out(), lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	pp.NewLine()
}

package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/taskflow/pkg/glyph"
	"tableflip.dev/taskflow/pkg/task"
)

// ShortID is the number of ID characters printed with --id.
const ShortID = 8

type PrettyPrint struct {
	ShowID bool
	// Width wraps descriptions and sizes calendar cells; zero means 80 columns.
	Width int
	// Preview is the number of titles listed per month cell.
	Preview int
	Today   time.Time
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", ShortID+2)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) today() time.Time {
	if pp.Today.IsZero() {
		return time.Now()
	}
	return pp.Today
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	pp.titleWithCount(title, count, "task", "tasks")
}

func (pp *PrettyPrint) titleWithCount(title string, count int, one, many string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " "+one)
	default:
		_, _ = c.Fprintln(pp.out(), " "+many)
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) id(id string) {
	if !pp.ShowID {
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	if len(id) > ShortID {
		id = id[:ShortID]
	}
	_, _ = y.Fprint(pp.out(), id)
	_, _ = y.Fprint(pp.out(), strings.Repeat(" ", len(spacing)-len(id)))
}

// Tasks prints one line per task followed by its wrapped description.
func (pp *PrettyPrint) Tasks(tasks ...task.Task) {
	if len(tasks) == 0 {
		pp.none()
		return
	}
	for _, t := range tasks {
		pp.Task(t, true)
	}
	pp.NewLine()
}

// Task prints a single task line. With due set, the due date and time follow the title.
func (pp *PrettyPrint) Task(t task.Task, due bool) {
	p := color.New()
	f := color.New(color.Faint)

	pp.id(t.ID)
	title := t.Title
	if t.Status == task.StatusDone {
		title = glyph.Strike(title)
	}
	_, _ = p.Fprintf(pp.out(), "%s %s %s", glyph.Status(t.Status), pp.priority(t.Priority), title)
	if due && t.DueDate != "" {
		when := t.DueDate.String()
		if t.DueTime != "" {
			when += " " + t.DueTime.Short()
		}
		if t.Status != task.StatusDone && t.Scheduled() && t.DueDate < task.DateOf(pp.today()) {
			_, _ = color.New(color.FgRed).Fprintf(pp.out(), "  %s", when)
		} else {
			_, _ = f.Fprintf(pp.out(), "  %s", when)
		}
	}
	_, _ = p.Fprintln(pp.out())

	if t.Description != "" {
		pad := 4
		if pp.ShowID {
			pad += len(spacing)
		}
		body := wordwrap.String(t.Description, pp.width()-pad)
		_, _ = f.Fprintln(pp.out(), indent.String(body, uint(pad)))
	}
}

func (pp *PrettyPrint) priority(p task.Priority) string {
	g := glyph.Priority(p).String()
	switch p {
	case task.PriorityUrgent:
		return color.New(color.FgHiRed, color.Bold).Sprint(g)
	case task.PriorityHigh:
		return color.New(color.FgYellow).Sprint(g)
	}
	return g
}

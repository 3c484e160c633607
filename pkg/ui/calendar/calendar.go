// Package calendar renders Monday-first month grids.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// Weekdays are the column headings, Monday first.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Options controls the styling of the rendered calendar.
type Options struct {
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	EntryStyle    lipgloss.Style
	OutsideStyle  lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowHeader    bool

	Today    time.Time
	Selected time.Time
}

// DefaultOptions returns the styles used by the CLI and the board.
func DefaultOptions(today time.Time) Options {
	return Options{
		HeaderStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244")),
		EmptyStyle:    lipgloss.NewStyle(),
		EntryStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		OutsideStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		TodayStyle:    lipgloss.NewStyle().Bold(true).Underline(true),
		SelectedStyle: lipgloss.NewStyle().Reverse(true),
		ShowHeader:    true,
		Today:         today,
	}
}

// Render produces a compact calendar with one glyph per day. Days holding tasks use the
// entry style; days of the neighbouring months are left blank.
func Render(m bucket.Month, opts Options) string {
	if m.Month.IsZero() {
		return ""
	}
	var lines []string
	if opts.ShowHeader {
		short := make([]string, len(Weekdays))
		for i, w := range Weekdays {
			short[i] = w[:2]
		}
		lines = append(lines, opts.HeaderStyle.Render(strings.Join(short, " ")))
	}
	for _, week := range m.Weeks() {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			if !c.InMonth {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			cells = append(cells, renderDay(c, opts))
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return strings.Join(lines, "\n")
}

func renderDay(c bucket.Cell, opts Options) string {
	style := opts.EmptyStyle
	if len(c.Tasks) > 0 {
		style = opts.EntryStyle
	}
	if timeutil.SameDay(c.Day, opts.Today) {
		style = style.Inherit(opts.TodayStyle)
	}
	if !opts.Selected.IsZero() && timeutil.SameDay(c.Day, opts.Selected) {
		style = style.Inherit(opts.SelectedStyle)
	}
	return style.Render(dayGlyph(c.Day.Day()))
}

// GridOptions sizes the full month grid.
type GridOptions struct {
	Options
	// CellWidth is the width of a day column, borders excluded.
	CellWidth int
	// Preview is the number of task titles listed per day.
	Preview int
	// Title renders a task line; it defaults to the bare title.
	Title func(task.Task) string
}

// Grid renders the month as a table of day cells, each listing up to Preview task titles
// followed by a "+N more" line for the rest.
func Grid(m bucket.Month, opts GridOptions) string {
	if m.Month.IsZero() {
		return ""
	}
	width := opts.CellWidth
	if width < 6 {
		width = 6
	}
	rows := opts.Preview + 2
	cell := lipgloss.NewStyle().Width(width).Height(rows).MaxHeight(rows)

	var out []string
	if opts.ShowHeader {
		heads := make([]string, len(Weekdays))
		for i, w := range Weekdays {
			heads[i] = cell.Height(1).MaxHeight(1).Inherit(opts.HeaderStyle).Render(w)
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, join(heads)...))
	}
	for _, week := range m.Weeks() {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = cell.Render(gridCell(c, width, opts))
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, join(cells)...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func gridCell(c bucket.Cell, width int, opts GridOptions) string {
	label := opts.EmptyStyle
	if !c.InMonth {
		label = opts.OutsideStyle
	}
	if timeutil.SameDay(c.Day, opts.Today) {
		label = label.Inherit(opts.TodayStyle)
	}
	if !opts.Selected.IsZero() && timeutil.SameDay(c.Day, opts.Selected) {
		label = label.Inherit(opts.SelectedStyle)
	}
	lines := []string{label.Render(fmt.Sprintf("%2d", c.Day.Day()))}

	shown, more := c.Preview(opts.Preview)
	for _, t := range shown {
		line := t.Title
		if opts.Title != nil {
			line = opts.Title(t)
		}
		lines = append(lines, truncate.StringWithTail(line, uint(width), "…"))
	}
	if more > 0 {
		lines = append(lines, opts.OutsideStyle.Render(fmt.Sprintf("+%d more", more)))
	}
	return strings.Join(lines, "\n")
}

// join puts a single space gutter between columns.
func join(cols []string) []string {
	out := make([]string, 0, len(cols)*2)
	for i, c := range cols {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

func dayGlyph(day int) string {
	if day < 0 || day >= len(whiteCircledDigits) {
		return "  "
	}
	return whiteCircledDigits[day]
}

var whiteCircledDigits = []string{
	"⓪",
	"①", "②", "③", "④", "⑤", "⑥", "⑦", "⑧", "⑨", "⑩",
	"⑪", "⑫", "⑬", "⑭", "⑮", "⑯", "⑰", "⑱", "⑲", "⑳",
	"㉑", "㉒", "㉓", "㉔", "㉕", "㉖", "㉗", "㉘", "㉙", "㉚",
	"㉛",
}

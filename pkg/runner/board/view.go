package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/glyph"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/timeutil"
	"tableflip.dev/taskflow/pkg/ui/calendar"
	"tableflip.dev/taskflow/pkg/view"
)

const helpText = `Views    1 list  2 kanban  3 day  4 week  5 month  M toggle mode
Dates    n/p next/prev  t today  h/l day (month) or page  j/k week (month)  enter open day
Tasks    j/k move  o add  i edit title  x toggle done  s next status  D delete  r refresh
Kanban   h/l column  m pick up / drop card  esc cancel move
Command  :q quit  :view <kind>  :mode <tasks|calendar>  :go <yyyy-mm-dd>  :add <title>  :status <status>`

var modeNames = map[mode]string{modeNormal: "NORMAL", modeInsert: "INSERT", modeCommand: "CMD", modeHelp: "HELP"}

// View renders the header, the current view and the footer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.body())

	switch m.mode {
	case modeInsert:
		prompt := "Add: "
		if m.action == actionEdit {
			prompt = "Edit: "
		}
		b.WriteString("\n\n" + prompt + m.input.View())
	case modeCommand:
		b.WriteString("\n\n:" + m.input.View())
	case modeHelp:
		b.WriteString("\n\n" + m.theme.Modal.Frame.Render(
			m.theme.Modal.Title.Render("Keys")+"\n\n"+m.theme.Modal.Body.Render(helpText)))
	}

	status := m.theme.Footer.Status.Render(m.status)
	if m.failed {
		status = m.theme.Footer.Error.Render(m.status)
	}
	b.WriteString("\n\n" + m.theme.Footer.Mode.Render("["+modeNames[m.mode]+"]") + " " + status)
	return b.String()
}

// header shows the view switcher, the scope and the signed-in user.
func (m Model) header() string {
	tabs := make([]string, 0, len(view.Kinds()))
	for i, k := range view.Kinds() {
		label := fmt.Sprintf("%d %s", i+1, k)
		switch {
		case k == m.state.Kind:
			tabs = append(tabs, m.theme.Header.ActiveTab.Render(label))
		case !view.Offers(m.state.Mode, k):
			tabs = append(tabs, m.theme.Header.Disabled.Render(label))
		default:
			tabs = append(tabs, m.theme.Header.Tab.Render(label))
		}
	}
	left := m.theme.Header.Title.Render(m.label) + "  " + strings.Join(tabs, "")
	right := m.theme.Header.User.Render(fmt.Sprintf("%s · %s mode", user(m.state.User), m.state.Mode))

	gap := m.bodyWidth() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) body() string {
	if !m.tasks.Loaded() && m.tasks.Err() == nil {
		return m.theme.Column.Faint.Render("Loading...")
	}
	all := m.tasks.Items()
	switch m.state.Kind {
	case view.KindKanban:
		return m.kanban(all)
	case view.KindDay:
		return m.day(all)
	case view.KindWeek:
		return m.week(all)
	case view.KindMonth:
		return m.month(all)
	}
	return m.list(all)
}

func (m Model) list(all []task.Task) string {
	lines := []string{m.theme.Column.Title.Render(fmt.Sprintf("All tasks (%d)", len(all)))}
	if len(all) == 0 {
		lines = append(lines, m.theme.Column.Faint.Render("  Nothing here yet. Press o to add a task."))
	}
	for i, t := range all {
		lines = append(lines, m.row(t, i == m.cursor, true, m.bodyWidth()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) kanban(all []task.Task) string {
	groups := bucket.ByStatus(all)
	width := (m.bodyWidth() - 2*len(groups)) / len(groups)
	if width < 20 {
		width = 20
	}
	cols := make([]string, 0, len(groups))
	for i, g := range groups {
		title := lipgloss.NewStyle().Foreground(lipgloss.Color(printers.ColumnColor(i, len(groups)))).Bold(true).
			Render(fmt.Sprintf("%s (%d)", g.Status.Label(), len(g.Tasks)))
		lines := []string{title}
		for j, t := range g.Tasks {
			lines = append(lines, m.row(t, i == m.column && j == m.cursor && m.drag.Active() == "", false, width-4))
		}
		if len(g.Tasks) == 0 {
			lines = append(lines, m.theme.Column.Faint.Render("empty"))
		}
		frame := m.theme.Column.Frame.Width(width)
		if i == m.column {
			frame = frame.BorderForeground(m.theme.Footer.Mode.GetForeground())
		}
		cols = append(cols, frame.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) day(all []task.Task) string {
	d := bucket.ByDay(all, m.state.Date)
	lines := []string{m.theme.Column.Title.Render(m.state.Date.Format("Monday, January 2 2006"))}
	i := 0
	for _, s := range d.Slots() {
		lines = append(lines, m.theme.Column.Faint.Render(fmt.Sprintf("%02d:00", s.Hour)))
		for _, t := range s.Tasks {
			lines = append(lines, m.row(t, i == m.cursor, false, m.bodyWidth()))
			i++
		}
	}
	if len(d.AllDay) > 0 {
		lines = append(lines, m.theme.Column.Faint.Render("All day"))
		for _, t := range d.AllDay {
			lines = append(lines, m.row(t, i == m.cursor, false, m.bodyWidth()))
			i++
		}
	}
	if i == 0 {
		lines = append(lines, m.theme.Column.Faint.Render("  Nothing scheduled."))
	}
	if len(d.NoDate) > 0 {
		lines = append(lines, "", m.theme.Column.Faint.Render(fmt.Sprintf("%d without a date", len(d.NoDate))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) week(all []task.Task) string {
	w := bucket.ByWeek(all, m.state.Date)
	lines := []string{m.theme.Column.Title.Render(
		fmt.Sprintf("Week of %s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2 2006")))}
	i := 0
	for _, d := range w.Days {
		heading := fmt.Sprintf("%s (%d)", d.Day.Format("Mon Jan 2"), len(d.Tasks))
		if timeutil.SameDay(d.Day, m.state.Date) {
			heading = m.theme.Footer.Mode.Render(heading)
		}
		lines = append(lines, heading)
		for _, t := range d.Tasks {
			lines = append(lines, m.row(t, i == m.cursor, false, m.bodyWidth()))
			i++
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) month(all []task.Task) string {
	mo := bucket.ByMonth(all, m.state.Date)
	opts := calendar.GridOptions{
		Options:   calendar.DefaultOptions(time.Now()),
		CellWidth: (m.bodyWidth() - 8) / 7,
		Preview:   m.preview,
		Title:     func(t task.Task) string { return glyph.Status(t.Status).Symbol + " " + t.Title },
	}
	opts.Selected = m.state.Date
	grid := m.theme.Column.Title.Render(m.state.Date.Format("January 2006")) + "\n" + calendar.Grid(mo, opts)

	selected := m.selectable()
	lines := []string{"", m.theme.Column.Faint.Render(fmt.Sprintf("%s (%d) enter opens the day", m.state.Date.Format("Mon Jan 2"), len(selected)))}
	for i, t := range selected {
		lines = append(lines, m.row(t, i == m.cursor, false, m.bodyWidth()))
	}
	return grid + strings.Join(lines, "\n")
}

// row renders one task line.
func (m Model) row(t task.Task, selected, due bool, width int) string {
	parts := []string{glyph.Status(t.Status).Symbol, glyph.Priority(t.Priority).Symbol, t.Title}
	if t.DueTime != "" {
		parts = append(parts, m.theme.Column.Faint.Render(t.DueTime.Short()))
	}
	if due && t.DueDate != "" {
		parts = append(parts, m.theme.Column.Faint.Render(t.DueDate.String()))
	}
	line := truncate.StringWithTail(strings.Join(parts, " "), uint(max(width-2, 8)), "…")
	return "  " + m.styleFor(t, selected).Render(line)
}

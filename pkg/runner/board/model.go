package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/cache"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/transition"
	"tableflip.dev/taskflow/pkg/ui/theme"
	"tableflip.dev/taskflow/pkg/view"
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeCommand
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionAdd
	actionEdit
)

// Model is the interactive board of one scope.
type Model struct {
	svc     *app.Service
	ctx     context.Context
	label   string
	tasks   *cache.Tasks
	view    *view.Machine
	handler *transition.Handler
	drag    *transition.KanbanDrag
	theme   theme.Theme

	mode   mode
	action action
	input  textinput.Model
	status string
	failed bool

	state  view.State
	cursor int
	// column is the focused kanban column, or the drop target while dragging.
	column int

	preview int
	width   int
	height  int

	changes <-chan struct{}
	states  <-chan view.State
}

// messages
type errMsg struct{ err error }
type tasksChangedMsg struct{}
type stateMsg struct{ state view.State }

// Options configure a new Model.
type Options struct {
	Label   string
	Tasks   *cache.Tasks
	View    *view.Machine
	Theme   theme.Theme
	Preview int
	// Done stops the view subscription.
	Done <-chan struct{}
}

// New creates a board backed by the Service.
func New(ctx context.Context, svc *app.Service, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Prompt = ""

	m := Model{
		svc:     svc,
		ctx:     ctx,
		label:   opts.Label,
		tasks:   opts.Tasks,
		view:    opts.View,
		theme:   opts.Theme,
		mode:    modeNormal,
		input:   ti,
		status:  "NORMAL: 1-5 views, j/k move, o add, x done, m move card, : commands, ? help",
		preview: opts.Preview,
		state:   opts.View.State(),
		changes: opts.Tasks.Changes(),
	}
	if m.preview <= 0 {
		m.preview = 2
	}
	if err := opts.Tasks.Err(); err != nil {
		m.fail(err)
	}
	m.drag = &transition.KanbanDrag{Lookup: opts.Tasks.Task}
	m.handler = svc.Transitions(opts.Tasks, nil)
	if opts.Done != nil {
		m.states = opts.View.Subscribe(opts.Done)
	}
	return m
}

// Init starts listening for snapshot and view changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChanges(), m.waitForState())
}

func (m Model) waitForChanges() tea.Cmd {
	ch := m.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return tasksChangedMsg{}
	}
}

func (m Model) waitForState() tea.Cmd {
	ch := m.states
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{s}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case errMsg:
		m.fail(msg.err)
	case tasksChangedMsg:
		if err := m.tasks.Err(); err != nil {
			m.fail(err)
		}
		m.clamp()
		cmds = append(cmds, m.waitForChanges())
	case stateMsg:
		m.state = msg.state
		m.clamp()
		cmds = append(cmds, m.waitForState())
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
			}
		case modeInsert:
			cmds = append(cmds, m.updateInsert(msg))
		case modeCommand:
			cmds = append(cmds, m.updateCommand(msg))
		case modeNormal:
			cmds = append(cmds, m.updateNormal(msg))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateNormal(msg tea.KeyPressMsg) tea.Cmd {
	switch key := msg.String(); key {
	case ":":
		return m.enterInput(modeCommand, actionNone, "command", "")
	case "?":
		m.mode = modeHelp
	case "q":
		m.info("Use :q or :exit to quit")

	// views
	case "1", "2", "3", "4", "5":
		kinds := view.Kinds()
		m.switchTo(kinds[int(key[0]-'1')])
	case "n":
		m.view.Next()
		m.sync()
	case "p":
		m.view.Prev()
		m.sync()
	case "t":
		m.view.SetDate(time.Now())
		m.sync()
	case "M":
		m.toggleMode()

	// movement
	case "j", "down":
		if m.state.Kind == view.KindMonth {
			m.moveDate(7)
		} else {
			m.cursor++
			m.clamp()
		}
	case "k", "up":
		if m.state.Kind == view.KindMonth {
			m.moveDate(-7)
		} else if m.cursor > 0 {
			m.cursor--
		}
	case "h", "left":
		m.horizontal(-1)
	case "l", "right":
		m.horizontal(1)
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = len(m.selectable()) - 1
		m.clamp()
	case "enter":
		if m.state.Kind == view.KindMonth {
			m.view.DayClicked(m.state.Date)
			m.sync()
		}

	// edits
	case "o", "O":
		return m.enterInput(modeInsert, actionAdd, "New task title", "")
	case "i":
		if t, ok := m.current(); ok {
			return m.enterInput(modeInsert, actionEdit, "Edit title", t.Title)
		}
	case "x", "space", " ":
		if t, ok := m.current(); ok {
			if err := m.handler.Toggle(m.ctx, t.ID, t.Status != task.StatusDone); err != nil {
				m.fail(err)
			} else {
				m.info("Toggled " + t.Title)
			}
		}
	case "s":
		if t, ok := m.current(); ok {
			next := nextStatus(t.Status)
			if err := m.handler.Change(m.ctx, t.ID, string(next)); err != nil {
				m.fail(err)
			} else {
				m.info(fmt.Sprintf("%s is %s", t.Title, next.Label()))
			}
		}
	case "D":
		if t, ok := m.current(); ok {
			if err := m.tasks.Delete(m.ctx, t.ID); err != nil {
				m.fail(err)
			} else {
				m.info("Deleted " + t.Title)
			}
		}
	case "m":
		m.toggleDrag()
	case "esc":
		if id := m.drag.Active(); id != "" {
			m.drag.OnDragEnd("")
			if t, ok := m.tasks.Task(id); ok {
				m.column = m.columnOf(t.Status)
			}
			m.info("Move cancelled")
		}
	case "r":
		if err := m.tasks.Refresh(m.ctx); err != nil {
			m.fail(err)
		} else {
			m.info("Refreshed")
		}
	}
	return nil
}

func (m *Model) updateInsert(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.input.Value())
		switch m.action {
		case actionAdd:
			if input != "" {
				m.add(input)
			}
		case actionEdit:
			if t, ok := m.current(); ok && input != "" {
				if _, err := m.svc.EditTask(m.ctx, m.tasks, t.ID, task.Patch{Title: &input}); err != nil {
					m.fail(err)
				} else {
					m.info("Edited")
				}
			}
		}
		m.leaveInput()
	case "esc":
		prev := m.action
		m.leaveInput()
		switch prev {
		case actionAdd:
			m.info("Add cancelled")
		case actionEdit:
			m.info("Edit cancelled")
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateCommand(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.input.Value())
		m.leaveInput()
		return m.command(input)
	case "esc":
		m.leaveInput()
		m.info("Command cancelled")
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

// command runs a ':' command line.
func (m *Model) command(line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	arg := strings.Join(fields[1:], " ")
	switch fields[0] {
	case "q", "quit", "exit":
		return tea.Quit
	case "view", "v":
		k, err := view.ParseKind(arg)
		if err != nil {
			m.fail(err)
			return nil
		}
		m.switchTo(k)
	case "mode":
		md, err := view.ParseMode(arg)
		if err != nil {
			m.fail(err)
			return nil
		}
		m.setMode(md)
	case "today":
		m.view.SetDate(time.Now())
		m.sync()
	case "go", "date":
		d, err := task.ParseDate(arg)
		if err != nil {
			m.fail(err)
			return nil
		}
		on, _ := d.Time()
		m.view.SetDate(on)
		m.sync()
	case "add":
		if arg != "" {
			m.add(arg)
		}
	case "status":
		if t, ok := m.current(); ok {
			if err := m.handler.Change(m.ctx, t.ID, arg); err != nil {
				m.fail(err)
			}
		}
	default:
		m.info(fmt.Sprintf("Unknown command: %s", line))
	}
	return nil
}

func (m *Model) add(title string) {
	in := app.TaskInput{Title: title}
	if m.state.Kind.Dated() {
		in.DueDate = task.DateOf(m.state.Date).String()
	}
	if m.state.Kind == view.KindKanban {
		in.Status = string(m.currentColumnStatus())
	}
	if _, err := m.svc.AddTask(m.ctx, m.tasks, in); err != nil {
		m.fail(err)
		return
	}
	m.info("Added " + title)
}

func (m *Model) enterInput(md mode, a action, placeholder, value string) tea.Cmd {
	m.mode = md
	m.action = a
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmds := []tea.Cmd{textinput.Blink}
	if cmd := m.input.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if md == modeCommand {
		m.info("COMMAND: :q quit, :view <kind>, :mode <mode>, :go <date>, :add <title>")
	}
	return tea.Batch(cmds...)
}

func (m *Model) leaveInput() {
	m.mode = modeNormal
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) switchTo(k view.Kind) {
	if err := m.view.Switch(k); err != nil {
		m.fail(err)
		return
	}
	m.sync()
	m.cursor = 0
	if k == view.KindKanban {
		m.column = m.columnOf(m.currentStatus())
	}
}

func (m *Model) toggleMode() {
	next := view.ModeTasks
	if m.state.Mode == view.ModeTasks {
		next = view.ModeCalendar
	}
	m.setMode(next)
}

// setMode stores the preference, then applies it to the view.
func (m *Model) setMode(md view.Mode) {
	if _, err := m.svc.SetMode(m.ctx, md); err != nil {
		m.fail(err)
		return
	}
	m.view.SetMode(md)
	m.sync()
	m.info(fmt.Sprintf("Mode: %s", md))
}

// horizontal moves across kanban columns, month days, or day and week pages.
func (m *Model) horizontal(dir int) {
	switch m.state.Kind {
	case view.KindKanban:
		n := len(task.Statuses())
		m.column = (m.column + dir + n) % n
		if m.drag.Active() == "" {
			m.cursor = 0
		}
	case view.KindMonth:
		m.moveDate(dir)
	case view.KindDay, view.KindWeek:
		if dir > 0 {
			m.view.Next()
		} else {
			m.view.Prev()
		}
		m.sync()
	}
}

func (m *Model) moveDate(days int) {
	m.view.SetDate(m.state.Date.AddDate(0, 0, days))
	m.sync()
}

// toggleDrag picks up the current card, or drops the carried one on the focused column.
func (m *Model) toggleDrag() {
	if m.state.Kind != view.KindKanban {
		m.info("Cards can only be moved on the kanban view")
		return
	}
	if m.drag.Active() == "" {
		if t, ok := m.current(); ok {
			m.drag.OnDragStart(t.ID)
			m.info("Moving " + t.Title + ": h/l pick a column, m drops, esc cancels")
		}
		return
	}
	target := m.currentColumnStatus()
	ev, ok := m.drag.OnDragEnd(string(target))
	if !ok {
		m.info("Nothing moved")
		return
	}
	if err := m.handler.Drop(m.ctx, ev); err != nil {
		m.fail(err)
		return
	}
	m.info("Moved to " + target.Label())
	m.cursor = 0
}

// sync copies the view state without waiting for the subscription.
func (m *Model) sync() {
	m.state = m.view.State()
	m.clamp()
}

func (m *Model) clamp() {
	n := len(m.selectable())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) info(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) fail(err error) {
	m.status = "ERR: " + err.Error()
	m.failed = true
}

// selectable returns the tasks the cursor moves over in the current view.
func (m *Model) selectable() []task.Task {
	all := m.tasks.Items()
	switch m.state.Kind {
	case view.KindKanban:
		groups := bucket.ByStatus(all)
		if m.column < len(groups) {
			return groups[m.column].Tasks
		}
		return nil
	case view.KindDay:
		d := bucket.ByDay(all, m.state.Date)
		var out []task.Task
		for _, s := range d.Slots() {
			out = append(out, s.Tasks...)
		}
		return append(out, d.AllDay...)
	case view.KindWeek:
		var out []task.Task
		for _, d := range bucket.ByWeek(all, m.state.Date).Days {
			out = append(out, d.Tasks...)
		}
		return out
	case view.KindMonth:
		for _, c := range bucket.ByMonth(all, m.state.Date).Cells {
			if c.Date == task.DateOf(m.state.Date) {
				return c.Tasks
			}
		}
		return nil
	}
	return all
}

func (m *Model) current() (task.Task, bool) {
	items := m.selectable()
	if m.cursor < 0 || m.cursor >= len(items) {
		return task.Task{}, false
	}
	return items[m.cursor], true
}

func (m *Model) currentStatus() task.Status {
	if t, ok := m.current(); ok {
		return t.Status
	}
	return task.StatusTodo
}

func (m *Model) currentColumnStatus() task.Status {
	statuses := task.Statuses()
	if m.column < 0 || m.column >= len(statuses) {
		return task.StatusTodo
	}
	return statuses[m.column]
}

func (m *Model) columnOf(s task.Status) int {
	for i, st := range task.Statuses() {
		if st == s {
			return i
		}
	}
	return 0
}

func nextStatus(s task.Status) task.Status {
	switch s {
	case task.StatusTodo:
		return task.StatusInProgress
	case task.StatusInProgress:
		return task.StatusDone
	}
	return task.StatusTodo
}

// user returns the signed-in user line for the header.
func user(u view.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// width of the body, with a sane floor for tests that never size the window.
func (m Model) bodyWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func (m Model) styleFor(t task.Task, selected bool) lipgloss.Style {
	st := m.theme.Column.Row
	if t.Status == task.StatusDone {
		st = m.theme.Column.Done
	}
	if t.ID == m.drag.Active() {
		st = m.theme.Column.Dragging
	}
	if selected {
		st = st.Inherit(m.theme.Column.Selected)
	}
	return st
}

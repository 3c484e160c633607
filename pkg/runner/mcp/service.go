// Package mcp provides the Model Context Protocol server integration for taskflow.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/workspace"
)

// Service adapts the app service to the shapes returned by MCP tools and resources.
type Service struct {
	App *app.Service
}

// NewService builds a service wrapper around the app service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

// DayView is the day bucket of a date.
type DayView struct {
	Date   string      `json:"date"`
	Slots  []HourSlot  `json:"slots"`
	AllDay []task.Task `json:"allDay"`
	NoDate []task.Task `json:"noDate"`
}

// HourSlot is one non-empty hour of a day.
type HourSlot struct {
	Hour  int         `json:"hour"`
	Tasks []task.Task `json:"tasks"`
}

// DateTasks holds the tasks due on a date.
type DateTasks struct {
	Date    string      `json:"date"`
	InMonth *bool       `json:"inMonth,omitempty"`
	Tasks   []task.Task `json:"tasks"`
}

// WeekView is the Monday to Sunday bucket of a date.
type WeekView struct {
	Start string      `json:"start"`
	End   string      `json:"end"`
	Days  []DateTasks `json:"days"`
}

// MonthView is the month grid of a date.
type MonthView struct {
	Month string      `json:"month"`
	Cells []DateTasks `json:"cells"`
}

// KanbanColumn is one status column.
type KanbanColumn struct {
	Status task.Status `json:"status"`
	Label  string      `json:"label"`
	Tasks  []task.Task `json:"tasks"`
}

func (s *Service) ready() error {
	if s.App == nil {
		return errors.New("mcp: service is not configured")
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.App != nil && s.App.Now != nil {
		return s.App.Now()
	}
	return time.Now()
}

// on parses a YYYY-MM-DD reference date; empty means today.
func (s *Service) on(raw string) (time.Time, error) {
	if raw == "" {
		return s.now(), nil
	}
	d, err := task.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	t, _ := d.Time()
	return t, nil
}

// ListTasks returns the tasks of a workspace, or the private tasks when ws is empty.
func (s *Service) ListTasks(ctx context.Context, ws string) ([]task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	scope, err := s.App.Scope(ctx, ws)
	if err != nil {
		return nil, err
	}
	tasks, err := s.App.Tasks(ctx, scope)
	if err != nil {
		return nil, err
	}
	return tasks.Items(), nil
}

// GetTask resolves a task by ID or unique ID prefix.
func (s *Service) GetTask(ctx context.Context, ws, id string) (task.Task, error) {
	all, err := s.ListTasks(ctx, ws)
	if err != nil {
		return task.Task{}, err
	}
	return app.FindTask(all, id)
}

// Day buckets tasks for a date.
func (s *Service) Day(ctx context.Context, ws, date string) (DayView, error) {
	on, err := s.on(date)
	if err != nil {
		return DayView{}, err
	}
	all, err := s.ListTasks(ctx, ws)
	if err != nil {
		return DayView{}, err
	}
	d := bucket.ByDay(all, on)
	out := DayView{Date: d.Date.String(), AllDay: nonNil(d.AllDay), NoDate: nonNil(d.NoDate), Slots: []HourSlot{}}
	for _, slot := range d.Slots() {
		out.Slots = append(out.Slots, HourSlot{Hour: slot.Hour, Tasks: slot.Tasks})
	}
	return out, nil
}

// Week buckets tasks into the week of a date.
func (s *Service) Week(ctx context.Context, ws, date string) (WeekView, error) {
	on, err := s.on(date)
	if err != nil {
		return WeekView{}, err
	}
	all, err := s.ListTasks(ctx, ws)
	if err != nil {
		return WeekView{}, err
	}
	w := bucket.ByWeek(all, on)
	out := WeekView{Start: task.DateOf(w.Start).String(), End: task.DateOf(w.End).String()}
	for _, d := range w.Days {
		out.Days = append(out.Days, DateTasks{Date: d.Date.String(), Tasks: nonNil(d.Tasks)})
	}
	return out, nil
}

// Month buckets tasks into the month grid of a date.
func (s *Service) Month(ctx context.Context, ws, date string) (MonthView, error) {
	on, err := s.on(date)
	if err != nil {
		return MonthView{}, err
	}
	all, err := s.ListTasks(ctx, ws)
	if err != nil {
		return MonthView{}, err
	}
	m := bucket.ByMonth(all, on)
	out := MonthView{Month: m.Month.Format("2006-01")}
	for _, c := range m.Cells {
		in := c.InMonth
		out.Cells = append(out.Cells, DateTasks{Date: c.Date.String(), InMonth: &in, Tasks: nonNil(c.Tasks)})
	}
	return out, nil
}

// Kanban groups the tasks by status.
func (s *Service) Kanban(ctx context.Context, ws string) ([]KanbanColumn, error) {
	all, err := s.ListTasks(ctx, ws)
	if err != nil {
		return nil, err
	}
	var out []KanbanColumn
	for _, g := range bucket.ByStatus(all) {
		out = append(out, KanbanColumn{Status: g.Status, Label: g.Status.Label(), Tasks: nonNil(g.Tasks)})
	}
	return out, nil
}

// Stats counts the tasks of a scope.
func (s *Service) Stats(ctx context.Context, ws string) (bucket.Stats, error) {
	all, err := s.ListTasks(ctx, ws)
	if err != nil {
		return bucket.Stats{}, err
	}
	return bucket.Count(all, s.now()), nil
}

// CreateTask adds a task to a scope.
func (s *Service) CreateTask(ctx context.Context, ws string, in app.TaskInput) (task.Task, error) {
	if err := s.ready(); err != nil {
		return task.Task{}, err
	}
	scope, err := s.App.Scope(ctx, ws)
	if err != nil {
		return task.Task{}, err
	}
	tasks, err := s.App.Tasks(ctx, scope)
	if err != nil {
		return task.Task{}, err
	}
	return s.App.AddTask(ctx, tasks, in)
}

// ChangeStatus sets the status of a task from raw input.
func (s *Service) ChangeStatus(ctx context.Context, ws, id, status string) (task.Task, error) {
	return s.transition(ctx, ws, id, func(ctx context.Context, h transitioner, id string) error {
		return h.Change(ctx, id, status)
	})
}

// ToggleTask marks a task done when checked, or back to do otherwise.
func (s *Service) ToggleTask(ctx context.Context, ws, id string, checked bool) (task.Task, error) {
	return s.transition(ctx, ws, id, func(ctx context.Context, h transitioner, id string) error {
		return h.Toggle(ctx, id, checked)
	})
}

type transitioner interface {
	Change(ctx context.Context, id, raw string) error
	Toggle(ctx context.Context, id string, checked bool) error
}

func (s *Service) transition(ctx context.Context, ws, ref string, fn func(context.Context, transitioner, string) error) (task.Task, error) {
	if err := s.ready(); err != nil {
		return task.Task{}, err
	}
	scope, err := s.App.Scope(ctx, ws)
	if err != nil {
		return task.Task{}, err
	}
	tasks, err := s.App.Tasks(ctx, scope)
	if err != nil {
		return task.Task{}, err
	}
	t, err := app.FindTask(tasks.Items(), ref)
	if err != nil {
		return task.Task{}, err
	}
	if err := fn(ctx, s.App.Transitions(tasks, nil), t.ID); err != nil {
		return task.Task{}, err
	}
	updated, _ := tasks.Task(t.ID)
	return updated, nil
}

// UpdateTask applies a patch to a task.
func (s *Service) UpdateTask(ctx context.Context, ws, ref string, p task.Patch) (task.Task, error) {
	if err := s.ready(); err != nil {
		return task.Task{}, err
	}
	scope, err := s.App.Scope(ctx, ws)
	if err != nil {
		return task.Task{}, err
	}
	tasks, err := s.App.Tasks(ctx, scope)
	if err != nil {
		return task.Task{}, err
	}
	t, err := app.FindTask(tasks.Items(), ref)
	if err != nil {
		return task.Task{}, err
	}
	return s.App.EditTask(ctx, tasks, t.ID, p)
}

// DeleteTask removes a task and returns it.
func (s *Service) DeleteTask(ctx context.Context, ws, ref string) (task.Task, error) {
	if err := s.ready(); err != nil {
		return task.Task{}, err
	}
	scope, err := s.App.Scope(ctx, ws)
	if err != nil {
		return task.Task{}, err
	}
	tasks, err := s.App.Tasks(ctx, scope)
	if err != nil {
		return task.Task{}, err
	}
	t, err := app.FindTask(tasks.Items(), ref)
	if err != nil {
		return task.Task{}, err
	}
	return t, tasks.Delete(ctx, t.ID)
}

// Journal lists the journal entries of a scope.
func (s *Service) Journal(ctx context.Context, ws string) ([]journal.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	scope, err := s.App.Scope(ctx, ws)
	if err != nil {
		return nil, err
	}
	return s.App.Entries(ctx, scope)
}

// AddJournalEntry writes a journal entry.
func (s *Service) AddJournalEntry(ctx context.Context, ws, content, typ string) (journal.Entry, error) {
	if err := s.ready(); err != nil {
		return journal.Entry{}, err
	}
	scope, err := s.App.Scope(ctx, ws)
	if err != nil {
		return journal.Entry{}, err
	}
	return s.App.AddEntry(ctx, scope, content, typ)
}

// Workspaces lists the signed-in user's workspaces.
func (s *Service) Workspaces(ctx context.Context) ([]workspace.Workspace, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.App.Workspaces(ctx)
}

func nonNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

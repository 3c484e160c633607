// Package get prints tasks through one of the views.
package get

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/runner/scope"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/view"
)

type Get struct {
	App       *app.Service
	Workspace string
	Kind      view.Kind
	On        time.Time
	// Stats prints counts instead of a view.
	Stats bool

	ShowID  bool
	Preview int
	Width   int
	Format  printers.Format
}

func (n *Get) Do(ctx context.Context) error {
	s, tasks, err := scope.Tasks(ctx, n.App, n.Workspace)
	if err != nil {
		return err
	}
	on := n.On
	if on.IsZero() {
		on = time.Now()
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Preview: n.Preview, Width: n.Width, Today: time.Now()}
	return n.Render(&pp, scope.Label(s, n.Workspace), tasks.Items(), on)
}

// Render prints all through the configured view.
func (n *Get) Render(pp *printers.PrettyPrint, label string, all []task.Task, on time.Time) error {
	if n.Stats {
		stats := bucket.Count(all, time.Now())
		if n.Format.Structured() {
			return n.Format.Encode(stats)
		}
		pp.Title(label)
		pp.Stats(stats)
		return nil
	}

	var v any
	switch n.Kind {
	case view.KindList, "":
		v = all
	case view.KindKanban:
		v = bucket.ByStatus(all)
	case view.KindDay:
		v = bucket.ByDay(all, on)
	case view.KindWeek:
		v = bucket.ByWeek(all, on)
	case view.KindMonth:
		v = bucket.ByMonth(all, on)
	default:
		return fmt.Errorf("%w %q", view.ErrUnknownKind, n.Kind)
	}
	if n.Format.Structured() {
		if v == nil {
			v = []task.Task{}
		}
		return n.Format.Encode(v)
	}

	pp.NewLine()
	switch v := v.(type) {
	case []task.Task:
		pp.TitleWithCount(label, len(v))
		pp.Tasks(v...)
	case []bucket.Group:
		pp.Title(label)
		pp.Kanban(v)
	case bucket.Day:
		pp.Day(v)
	case bucket.Week:
		pp.Week(v)
	case bucket.Month:
		pp.Month(v)
	}
	return nil
}

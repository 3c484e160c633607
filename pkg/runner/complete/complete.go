package complete

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/runner/scope"
	"tableflip.dev/taskflow/pkg/task"
)

// Complete moves tasks to a status. With an empty Status the tasks are checked off, or
// unchecked when Undo is set.
type Complete struct {
	App       *app.Service
	Workspace string
	IDs       []string
	Status    string
	Undo      bool

	ShowID bool
	Format printers.Format
}

func (n *Complete) Do(ctx context.Context) error {
	_, tasks, err := scope.Tasks(ctx, n.App, n.Workspace)
	if err != nil {
		return err
	}
	h := n.App.Transitions(tasks, func(err error) {
		_, _ = fmt.Fprintf(os.Stderr, "complete: %v\n", err)
	})

	var changed []task.Task
	for _, ref := range n.IDs {
		t, err := app.FindTask(tasks.Items(), ref)
		if err != nil {
			return err
		}
		if n.Status != "" {
			err = h.Change(ctx, t.ID, n.Status)
		} else {
			err = h.Toggle(ctx, t.ID, !n.Undo)
		}
		if err != nil {
			return err
		}
		if updated, ok := tasks.Task(t.ID); ok {
			changed = append(changed, updated)
		}
	}

	if n.Format.Structured() {
		return n.Format.Encode(changed)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Tasks(changed...)
	return nil
}

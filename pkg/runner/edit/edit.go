package edit

import (
	"context"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/runner/scope"
	"tableflip.dev/taskflow/pkg/task"
)

// Edit applies a patch to one task.
type Edit struct {
	App       *app.Service
	Workspace string
	ID        string
	Patch     task.Patch

	ShowID bool
	Format printers.Format
}

func (n *Edit) Do(ctx context.Context) error {
	_, tasks, err := scope.Tasks(ctx, n.App, n.Workspace)
	if err != nil {
		return err
	}
	t, err := app.FindTask(tasks.Items(), n.ID)
	if err != nil {
		return err
	}
	updated, err := n.App.EditTask(ctx, tasks, t.ID, n.Patch)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(updated)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Tasks(updated)
	return nil
}

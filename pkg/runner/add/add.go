package add

import (
	"context"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/runner/scope"
)

// Add creates a task.
type Add struct {
	App       *app.Service
	Workspace string
	Input     app.TaskInput

	ShowID bool
	Format printers.Format
}

func (n *Add) Do(ctx context.Context) error {
	s, tasks, err := scope.Tasks(ctx, n.App, n.Workspace)
	if err != nil {
		return err
	}
	created, err := n.App.AddTask(ctx, tasks, n.Input)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(created)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Title("Added to " + scope.Label(s, n.Workspace))
	pp.Tasks(created)
	return nil
}

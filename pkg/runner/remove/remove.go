package remove

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/runner/scope"
)

// Remove deletes tasks by ID or unique ID prefix.
type Remove struct {
	App       *app.Service
	Workspace string
	IDs       []string
}

func (n *Remove) Do(ctx context.Context) error {
	_, tasks, err := scope.Tasks(ctx, n.App, n.Workspace)
	if err != nil {
		return err
	}
	for _, ref := range n.IDs {
		t, err := app.FindTask(tasks.Items(), ref)
		if err != nil {
			return err
		}
		if err := tasks.Delete(ctx, t.ID); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(color.Output, "Removed %q\n", t.Title)
	}
	return nil
}

// Package watch re-prints a view whenever the tasks of its scope change.
package watch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/runner/get"
	"tableflip.dev/taskflow/pkg/runner/scope"
	"tableflip.dev/taskflow/pkg/store"
)

const clearScreen = "\x1b[H\x1b[2J"

// Watch renders Get, then renders it again after every change until ctx is done.
type Watch struct {
	Get get.Get
	// Clear wipes the terminal before each render.
	Clear bool
}

func (n *Watch) Do(ctx context.Context) error {
	a := n.Get.App
	s, tasks, err := scope.Tasks(ctx, a, n.Get.Workspace)
	if err != nil {
		return err
	}
	events, err := a.Watch(ctx)
	if err != nil {
		return err
	}

	label := scope.Label(s, n.Get.Workspace)
	render := func() error {
		if n.Clear {
			_, _ = fmt.Fprint(color.Output, clearScreen)
		}
		on := n.Get.On
		if on.IsZero() {
			on = time.Now()
		}
		pp := printers.PrettyPrint{ShowID: n.Get.ShowID, Preview: n.Get.Preview, Width: n.Get.Width, Today: time.Now()}
		return n.Get.Render(&pp, label, tasks.Items(), on)
	}
	if err := render(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !ev.Affects(store.TableTasks, s) {
				continue
			}
			if err := tasks.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				_, _ = fmt.Fprintf(os.Stderr, "watch: %v\n", err)
				continue
			}
			if err := render(); err != nil {
				return err
			}
		}
	}
}

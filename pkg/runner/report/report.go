// Package report prints what was completed during a window.
package report

import (
	"context"
	"time"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/timeutil"
)

type Report struct {
	App       *app.Service
	Workspace string
	// Last is a window such as "1w" or "2d12h".
	Last string
	// Until defaults to now.
	Until time.Time

	ShowID bool
	Format printers.Format
}

func (n *Report) Do(ctx context.Context) error {
	w, err := timeutil.ParseWindow(n.Last)
	if err != nil {
		return err
	}
	until := n.Until
	if until.IsZero() {
		until = time.Now()
	}
	since, until := w.Since(until)

	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	res, err := n.App.Report(ctx, s, since, until)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(res)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Report(res)
	return nil
}

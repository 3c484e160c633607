// Package board runs the interactive task board.
package board

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mattn/go-isatty"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/runner/scope"
	"tableflip.dev/taskflow/pkg/ui/theme"
	"tableflip.dev/taskflow/pkg/view"
)

// ErrNoTerminal is returned when stdout is not a terminal.
var ErrNoTerminal = errors.New("board: needs an interactive terminal")

// Board opens the board on a scope.
type Board struct {
	App       *app.Service
	Workspace string
	// Kind is the preferred initial view; the user's mode decides whether it is offered.
	Kind    view.Kind
	Preview int
}

func (b *Board) Do(ctx context.Context) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return ErrNoTerminal
	}

	s, tasks, err := scope.Tasks(ctx, b.App, b.Workspace)
	if err != nil && tasks == nil {
		return err
	}
	machine, err := b.App.NewView(ctx, b.Kind)
	if err != nil {
		return err
	}
	prof, err := b.App.Profile(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := tasks.Run(ctx, b.App.Persistence); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "board: %v\n", err)
		}
	}()

	m := New(ctx, b.App, Options{
		Label:   scope.Label(s, b.Workspace),
		Tasks:   tasks,
		View:    machine,
		Theme:   theme.For(prof.Theme),
		Preview: b.Preview,
		Done:    ctx.Done(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

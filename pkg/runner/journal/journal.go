// Package journal runs the journal and thought commands.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/printers"
)

// Action selects what a runner does.
type Action string

const (
	List   Action = "list"
	Add    Action = "add"
	Edit   Action = "edit"
	Remove Action = "remove"
)

// Journal manages journal entries in the private or a workspace scope.
type Journal struct {
	App       *app.Service
	Workspace string
	Action    Action
	ID        string
	Content   string
	Type      string
	// Since limits listing to entries created after it.
	Since time.Time

	ShowID bool
	Format printers.Format
}

func (n *Journal) Do(ctx context.Context) error {
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}

	var e journal.Entry
	switch n.Action {
	case Add:
		e, err = n.App.AddEntry(ctx, s, n.Content, n.Type)
	case Edit:
		e, err = n.App.EditEntry(ctx, s, n.ID, n.Content, n.Type)
	case Remove:
		if e, err = n.App.DeleteEntry(ctx, s, n.ID); err == nil {
			_, _ = fmt.Fprintf(color.Output, "Removed journal entry %s\n", shortID(e.ID))
		}
		return err
	case List, "":
		entries, err := n.App.Entries(ctx, s)
		if err != nil {
			return err
		}
		entries = since(entries, n.Since)
		if n.Format.Structured() {
			return n.Format.Encode(entries)
		}
		pp.Entries(entries...)
		if len(entries) > 0 {
			pp.Summary(journal.Summarize(entries))
		}
		return nil
	default:
		return fmt.Errorf("journal: unknown action %q", n.Action)
	}
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(e)
	}
	pp.Entries(e)
	return nil
}

func since(entries []journal.Entry, t time.Time) []journal.Entry {
	if t.IsZero() {
		return entries
	}
	kept := entries[:0:0]
	for _, e := range entries {
		if !e.CreatedAt.Before(t) {
			kept = append(kept, e)
		}
	}
	return kept
}

func shortID(id string) string {
	if len(id) > printers.ShortID {
		return id[:printers.ShortID]
	}
	return id
}

// Thoughts manages the thoughts of a workspace.
type Thoughts struct {
	App       *app.Service
	Workspace string
	Action    Action
	ID        string
	Content   string
	Type      string

	ShowID bool
	Format printers.Format
}

func (n *Thoughts) Do(ctx context.Context) error {
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}

	switch n.Action {
	case Add:
		t, err := n.App.AddThought(ctx, s, n.Content, n.Type)
		if err != nil {
			return err
		}
		if n.Format.Structured() {
			return n.Format.Encode(t)
		}
		pp.Thoughts(t)
		return nil
	case Remove:
		t, err := n.App.DeleteThought(ctx, s, n.ID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(color.Output, "Removed thought %s\n", shortID(t.ID))
		return nil
	case List, "":
		thoughts, err := n.App.Thoughts(ctx, s)
		if err != nil {
			return err
		}
		if n.Format.Structured() {
			return n.Format.Encode(thoughts)
		}
		pp.Thoughts(thoughts...)
		return nil
	}
	return fmt.Errorf("thought: unknown action %q", n.Action)
}

package cache

import (
	"context"

	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/store"
)

// JournalStore lists journal entries and thoughts.
type JournalStore interface {
	ListEntries(ctx context.Context, scope store.Scope) ([]journal.Entry, error)
	ListThoughts(ctx context.Context, workspaceID string) ([]journal.Thought, error)
}

// NewEntries returns the journal entry snapshot of scope.
func NewEntries(s JournalStore, scope store.Scope) *Collection[journal.Entry] {
	return NewCollection(store.TableJournal, scope, func(ctx context.Context) ([]journal.Entry, error) {
		return s.ListEntries(ctx, scope)
	})
}

// NewThoughts returns the thought snapshot of a workspace.
func NewThoughts(s JournalStore, workspaceID string) *Collection[journal.Thought] {
	return NewCollection(store.TableThoughts, store.InWorkspace(workspaceID), func(ctx context.Context) ([]journal.Thought, error) {
		return s.ListThoughts(ctx, workspaceID)
	})
}

// Package cache keeps the session's read-through snapshot of a collection. The store is
// the source of truth: every successful write and every change-feed signal triggers a
// full re-fetch, and the most recently started fetch wins.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"tableflip.dev/taskflow/pkg/store"
)

var (
	// ErrFetchFailure wraps store read failures. The previous snapshot is kept.
	ErrFetchFailure = errors.New("cache: fetch failed")
	// ErrWriteFailure wraps store create, update and delete failures.
	ErrWriteFailure = errors.New("cache: write failed")
)

// Watcher is the change feed.
type Watcher interface {
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// Collection is a snapshot of one table in one scope.
type Collection[T any] struct {
	table string
	scope store.Scope
	fetch func(ctx context.Context) ([]T, error)

	mu      sync.RWMutex
	items   []T
	err     error
	loaded  bool
	started  uint64 // generation of the most recent fetch started
	resolved uint64 // generation of the newest fetch that finished, failed or not

	changes chan struct{}
}

// NewCollection returns an empty snapshot filled by fetch.
func NewCollection[T any](table string, scope store.Scope, fetch func(ctx context.Context) ([]T, error)) *Collection[T] {
	return &Collection[T]{
		table:   table,
		scope:   scope,
		fetch:   fetch,
		changes: make(chan struct{}, 1),
	}
}

// Scope returns the scope this collection mirrors.
func (c *Collection[T]) Scope() store.Scope {
	return c.scope
}

// Items returns a copy of the snapshot.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Err returns the error of the last fetch, or nil when it succeeded. A non-nil Err with
// Loaded true means Items is stale.
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Loaded reports whether any fetch has succeeded.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Changes signals after every snapshot change. Signals coalesce.
func (c *Collection[T]) Changes() <-chan struct{} {
	return c.changes
}

// Refresh re-fetches the collection. On failure the old snapshot is kept and the error
// wraps ErrFetchFailure. A fetch that finishes after a newer one has finished is
// discarded, whether the newer one succeeded or failed.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.started++
	gen := c.started
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen < c.resolved {
		return nil
	}
	c.resolved = gen
	if err != nil {
		c.err = fmt.Errorf("%w: %s %s: %v", ErrFetchFailure, c.table, c.scope, err)
		c.notifyLocked()
		return c.err
	}
	c.items = items
	c.err = nil
	c.loaded = true
	c.notifyLocked()
	return nil
}

// Run keeps the snapshot current until ctx is done. Only workspace scopes subscribe to
// the change feed; for the private scope Run returns nil at once.
func (c *Collection[T]) Run(ctx context.Context, w Watcher) error {
	if c.scope.IsPrivate() || w == nil {
		return nil
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("cache: subscribe %s: %w", c.table, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !ev.Affects(c.table, c.scope) {
				continue
			}
			if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "cache: refresh %s: %v\n", c.table, err)
			}
		}
	}
}

// mutate edits the snapshot in place under the lock and signals observers.
func (c *Collection[T]) mutate(fn func(items []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(c.items)
	c.notifyLocked()
}

// refreshAfterWrite re-fetches after a successful write. A failing re-fetch is logged and
// recorded in Err; the write itself succeeded.
func (c *Collection[T]) refreshAfterWrite(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cache: refresh after write: %v\n", err)
	}
}

func (c *Collection[T]) notifyLocked() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// Package scope resolves the task snapshot shared by the task runners.
package scope

import (
	"context"
	"errors"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/cache"
	"tableflip.dev/taskflow/pkg/store"
)

// Label names a scope for titles.
func Label(s store.Scope, name string) string {
	if s.IsPrivate() {
		return "Private"
	}
	if name != "" {
		return name
	}
	return s.Workspace
}

// Tasks resolves workspace (empty for private) and loads its task snapshot. A failed fetch
// still returns the empty snapshot along with the error.
func Tasks(ctx context.Context, a *app.Service, workspace string) (store.Scope, *cache.Tasks, error) {
	if a == nil {
		return store.Scope{}, nil, errors.New("runner: no service configured")
	}
	s, err := a.Scope(ctx, workspace)
	if err != nil {
		return store.Scope{}, nil, err
	}
	tasks, err := a.Tasks(ctx, s)
	return s, tasks, err
}

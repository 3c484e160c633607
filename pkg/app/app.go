package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/view"
)

// Service provides the high-level operations shared by the CLI, the board and the MCP
// server. It wraps persistence and the signed-in session.
type Service struct {
	Persistence store.Persistence
	Accounts    account.Provider
	// Now defaults to time.Now.
	Now func() time.Time
}

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrNotMember     = errors.New("app: not a member of this workspace")
	ErrForbidden     = errors.New("app: not allowed")
	ErrNoWorkspace   = errors.New("app: a workspace is required")
)

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ready() error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return nil
}

// Session returns the signed-in user.
func (s *Service) Session(ctx context.Context) (account.Session, error) {
	if s.Accounts == nil {
		return account.Session{}, account.ErrNotAuthenticated
	}
	return s.Accounts.Current(ctx)
}

// Profile returns the stored profile of the signed-in user, or the default profile when
// none has been saved.
func (s *Service) Profile(ctx context.Context) (account.Profile, error) {
	if err := s.ready(); err != nil {
		return account.Profile{}, err
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return account.Profile{}, err
	}
	p, err := s.Persistence.Profile(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return account.DefaultProfile(sess), nil
	}
	return p, err
}

// SetMode stores the app mode preference.
func (s *Service) SetMode(ctx context.Context, mode view.Mode) (account.Profile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return account.Profile{}, err
	}
	p.AppMode = mode
	return s.Persistence.SaveProfile(ctx, p)
}

// NewView starts the session's view state from the stored profile. preferred is used
// as the initial kind when the profile's mode offers it.
func (s *Service) NewView(ctx context.Context, preferred view.Kind) (*view.Machine, error) {
	sess, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return view.New(view.Options{
		Mode:    p.AppMode,
		Default: preferred,
		Today:   s.now(),
		User:    sess.User(),
	}), nil
}

// Scope resolves a workspace ID to a scope. An empty ID is the signed-in user's private
// scope; otherwise the user must be a member of the workspace.
func (s *Service) Scope(ctx context.Context, workspaceID string) (store.Scope, error) {
	if err := s.ready(); err != nil {
		return store.Scope{}, err
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return store.Scope{}, err
	}
	if workspaceID == "" {
		return store.Private(sess.UserID), nil
	}
	w, err := s.resolveWorkspace(ctx, sess.UserID, workspaceID)
	if err != nil {
		return store.Scope{}, err
	}
	return store.InWorkspace(w.ID), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Watch(ctx)
}

func notFound(kind, id string) error {
	return fmt.Errorf("app: %s %q not found: %w", kind, id, store.ErrNotFound)
}

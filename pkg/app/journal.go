package app

import (
	"context"
	"fmt"
	"strings"

	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/store"
)

// Entries lists journal entries of scope, newest first.
func (s *Service) Entries(ctx context.Context, scope store.Scope) ([]journal.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.ListEntries(ctx, scope)
}

// AddEntry writes a journal entry into scope.
func (s *Service) AddEntry(ctx context.Context, scope store.Scope, content, rawType string) (journal.Entry, error) {
	if err := s.ready(); err != nil {
		return journal.Entry{}, err
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return journal.Entry{}, err
	}
	typ, err := journal.ParseEntryType(rawType)
	if err != nil {
		return journal.Entry{}, err
	}
	e := journal.NewEntry(content, typ, sess.UserID)
	e.WorkspaceID = scope.Workspace
	return s.Persistence.CreateEntry(ctx, e)
}

// EditEntry changes the content and, when rawType is set, the type of an entry. ref may
// be an ID prefix.
func (s *Service) EditEntry(ctx context.Context, scope store.Scope, ref, content, rawType string) (journal.Entry, error) {
	e, err := s.findEntry(ctx, scope, ref)
	if err != nil {
		return journal.Entry{}, err
	}
	typ := e.Type
	if rawType != "" {
		if typ, err = journal.ParseEntryType(rawType); err != nil {
			return journal.Entry{}, err
		}
	}
	if content == "" {
		content = e.Content
	}
	return s.Persistence.UpdateEntry(ctx, e.ID, content, typ)
}

// DeleteEntry removes an entry. ref may be an ID prefix.
func (s *Service) DeleteEntry(ctx context.Context, scope store.Scope, ref string) (journal.Entry, error) {
	e, err := s.findEntry(ctx, scope, ref)
	if err != nil {
		return journal.Entry{}, err
	}
	return e, s.Persistence.DeleteEntry(ctx, e.ID)
}

func (s *Service) findEntry(ctx context.Context, scope store.Scope, ref string) (journal.Entry, error) {
	entries, err := s.Entries(ctx, scope)
	if err != nil {
		return journal.Entry{}, err
	}
	return findByID(entries, ref, "entry", func(e journal.Entry) string { return e.ID })
}

// Thoughts lists the thoughts shared with a workspace, newest first.
func (s *Service) Thoughts(ctx context.Context, scope store.Scope) ([]journal.Thought, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if scope.IsPrivate() {
		return nil, journal.ErrNoWorkspace
	}
	return s.Persistence.ListThoughts(ctx, scope.Workspace)
}

// AddThought shares a thought with the scope's workspace.
func (s *Service) AddThought(ctx context.Context, scope store.Scope, content, rawType string) (journal.Thought, error) {
	if err := s.ready(); err != nil {
		return journal.Thought{}, err
	}
	if scope.IsPrivate() {
		return journal.Thought{}, journal.ErrNoWorkspace
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return journal.Thought{}, err
	}
	typ, err := journal.ParseThoughtType(rawType)
	if err != nil {
		return journal.Thought{}, err
	}
	return s.Persistence.CreateThought(ctx, journal.NewThought(content, typ, scope.Workspace, sess.UserID))
}

// DeleteThought removes a thought. Only its author may remove it.
func (s *Service) DeleteThought(ctx context.Context, scope store.Scope, ref string) (journal.Thought, error) {
	thoughts, err := s.Thoughts(ctx, scope)
	if err != nil {
		return journal.Thought{}, err
	}
	t, err := findByID(thoughts, ref, "thought", func(t journal.Thought) string { return t.ID })
	if err != nil {
		return journal.Thought{}, err
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return journal.Thought{}, err
	}
	if t.CreatedBy != sess.UserID {
		return journal.Thought{}, ErrForbidden
	}
	return t, s.Persistence.DeleteThought(ctx, t.ID)
}

func findByID[T any](items []T, ref, kind string, id func(T) string) (T, error) {
	var zero T
	if ref == "" {
		return zero, fmt.Errorf("app: %s id required", kind)
	}
	var matches []T
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
		if strings.HasPrefix(id(it), ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, notFound(kind, ref)
	case 1:
		return matches[0], nil
	}
	return zero, fmt.Errorf("%w: %q matches %d records", ErrAmbiguous, ref, len(matches))
}

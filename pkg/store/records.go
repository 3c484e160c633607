package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/view"
	"tableflip.dev/taskflow/pkg/workspace"
)

func encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode: %w", err)
	}
	return b, nil
}

func decodeTask(body []byte) (task.Task, error) {
	var t task.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return task.Task{}, err
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func decodeEntry(body []byte) (journal.Entry, error) {
	var e journal.Entry
	if err := json.Unmarshal(body, &e); err != nil {
		return journal.Entry{}, err
	}
	if e.Type == "" {
		e.Type = journal.TypeNote
	}
	if err := e.Validate(); err != nil {
		return journal.Entry{}, err
	}
	return e, nil
}

func decodeThought(body []byte) (journal.Thought, error) {
	var t journal.Thought
	if err := json.Unmarshal(body, &t); err != nil {
		return journal.Thought{}, err
	}
	if t.Type == "" {
		t.Type = journal.ThoughtPlain
	}
	if err := t.Validate(); err != nil {
		return journal.Thought{}, err
	}
	return t, nil
}

func decodeWorkspace(body []byte) (workspace.Workspace, error) {
	var w workspace.Workspace
	if err := json.Unmarshal(body, &w); err != nil {
		return workspace.Workspace{}, err
	}
	return w, w.Validate()
}

func decodeMember(body []byte) (workspace.Member, error) {
	var m workspace.Member
	if err := json.Unmarshal(body, &m); err != nil {
		return workspace.Member{}, err
	}
	if m.WorkspaceID == "" || m.UserID == "" {
		return workspace.Member{}, errors.New("member without workspace or user")
	}
	role, err := workspace.ParseRole(string(m.Role))
	if err != nil {
		return workspace.Member{}, err
	}
	m.Role = role
	return m, nil
}

func decodeInvite(body []byte) (workspace.Invite, error) {
	var i workspace.Invite
	if err := json.Unmarshal(body, &i); err != nil {
		return workspace.Invite{}, err
	}
	if i.Code == "" || i.WorkspaceID == "" {
		return workspace.Invite{}, errors.New("invite without code or workspace")
	}
	return i, nil
}

func decodeProfile(body []byte) (account.Profile, error) {
	var p account.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return account.Profile{}, err
	}
	if p.UserID == "" {
		return account.Profile{}, errors.New("profile without id")
	}
	mode, err := view.ParseMode(string(p.AppMode))
	if err != nil {
		return account.Profile{}, err
	}
	p.AppMode = mode
	if p.Theme == "" {
		p.Theme = account.ThemeSystem
	}
	return p, nil
}

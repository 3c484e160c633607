// Package store is the data access layer. It lists, creates, updates and deletes tasks,
// journal entries, thoughts, workspaces, invites and profiles, and publishes a coarse
// change feed.
//
// Records are kept as JSON documents. They are decoded and validated here, at the
// boundary; a malformed record is logged and skipped and never reaches callers.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/workspace"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// Scope selects private records of one owner or the records of one workspace.
type Scope struct {
	// Workspace is empty for the private scope.
	Workspace string
	// Owner restricts the private scope to records created by this user. Empty means every
	// private record.
	Owner string
}

// Private is the scope of records without a workspace, created by owner.
func Private(owner string) Scope {
	return Scope{Owner: owner}
}

// InWorkspace is the scope of one workspace.
func InWorkspace(id string) Scope {
	return Scope{Workspace: id}
}

// IsPrivate reports whether s is the private scope.
func (s Scope) IsPrivate() bool {
	return s.Workspace == ""
}

func (s Scope) String() string {
	if s.IsPrivate() {
		return "private"
	}
	return "workspace " + s.Workspace
}

// Table names.
const (
	TableTasks      = "tasks"
	TableJournal    = "journal_entries"
	TableThoughts   = "thoughts"
	TableWorkspaces = "workspaces"
	TableMembers    = "workspace_members"
	TableInvites    = "workspace_invites"
	TableProfiles   = "profiles"
)

// Event is a "something changed" signal. It carries no diff. An empty Table means any
// table may have changed.
type Event struct {
	Table     string
	Workspace string
}

// Affects reports whether e may have changed records of table in scope.
func (e Event) Affects(table string, scope Scope) bool {
	if e.Table != "" && e.Table != table {
		return false
	}
	return e.Table == "" || e.Workspace == scope.Workspace
}

// Persistence is the data access contract.
type Persistence interface {
	ListTasks(ctx context.Context, scope Scope) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (task.Task, error)
	CreateTask(ctx context.Context, t task.Task) (task.Task, error)
	UpdateTask(ctx context.Context, id string, p task.Patch) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListEntries(ctx context.Context, scope Scope) ([]journal.Entry, error)
	GetEntry(ctx context.Context, id string) (journal.Entry, error)
	CreateEntry(ctx context.Context, e journal.Entry) (journal.Entry, error)
	UpdateEntry(ctx context.Context, id, content string, typ journal.EntryType) (journal.Entry, error)
	DeleteEntry(ctx context.Context, id string) error

	ListThoughts(ctx context.Context, workspaceID string) ([]journal.Thought, error)
	CreateThought(ctx context.Context, t journal.Thought) (journal.Thought, error)
	DeleteThought(ctx context.Context, id string) error

	CreateWorkspace(ctx context.Context, w workspace.Workspace) (workspace.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (workspace.Workspace, error)
	Workspaces(ctx context.Context, userID string) ([]workspace.Workspace, error)
	Members(ctx context.Context, workspaceID string) ([]workspace.Member, error)
	SaveMember(ctx context.Context, m workspace.Member) error
	RemoveMember(ctx context.Context, workspaceID, userID string) error
	SaveInvite(ctx context.Context, i workspace.Invite) error
	InviteByCode(ctx context.Context, code string) (workspace.Invite, error)
	ListInvites(ctx context.Context, workspaceID string) ([]workspace.Invite, error)
	DeleteInvite(ctx context.Context, id string) error

	Profile(ctx context.Context, userID string) (account.Profile, error)
	SaveProfile(ctx context.Context, p account.Profile) (account.Profile, error)

	// Watch streams change events until ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// record is one stored document.
type record struct {
	Table string
	Scope string
	ID    string
	Body  []byte
}

// anyScope lists a table across every scope.
const anyScope = "*"

// privateScope is the scope key of records without a workspace.
const privateScope = "_private"

func scopeKey(workspaceID string) string {
	if workspaceID == "" {
		return privateScope
	}
	return workspaceID
}

func workspaceOf(key string) string {
	if key == privateScope {
		return ""
	}
	return key
}

// backend stores raw records.
type backend interface {
	put(r record) error
	get(table, id string) (record, error)
	list(table, scope string) ([]record, error)
	remove(table, id string) error
	watch(ctx context.Context) (<-chan Event, error)
	close() error
}

// Load opens the Persistence described by cfg, reading configuration when cfg is nil.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	var (
		b   backend
		err error
	)
	switch cfg.Backend() {
	case BackendDiskv:
		b, err = newDiskv(cfg.BasePath())
	case BackendSQLite:
		b, err = newSQLite(cfg.BasePath())
	case BackendMemory:
		b = newMemory()
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
	}
	if err != nil {
		return nil, err
	}
	return &persistence{b: b, now: func() time.Time { return time.Now().UTC() }}, nil
}

// NewMemory returns an empty in-memory Persistence.
func NewMemory() Persistence {
	return &persistence{b: newMemory(), now: func() time.Time { return time.Now().UTC() }}
}

type persistence struct {
	// mu serialises read-modify-write updates.
	mu  sync.Mutex
	b   backend
	now func() time.Time
}

func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	return p.b.watch(ctx)
}

func (p *persistence) Close() error {
	return p.b.close()
}

// listOf decodes every record of table in scope, skipping and logging malformed ones.
func listOf[T any](ctx context.Context, b backend, table, scope string, decode func([]byte) (T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := b.list(table, scope)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", table, err)
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		v, err := decode(r.Body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: skipping malformed %s record %s: %v\n", table, r.ID, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func getOf[T any](ctx context.Context, b backend, table, id string, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	r, err := b.get(table, id)
	if err != nil {
		return zero, err
	}
	v, err := decode(r.Body)
	if err != nil {
		return zero, fmt.Errorf("store: malformed %s record %s: %w", table, id, err)
	}
	return v, nil
}

func (p *persistence) putJSON(table, workspaceID, id string, v any) error {
	body, err := encode(v)
	if err != nil {
		return err
	}
	if err := p.b.put(record{Table: table, Scope: scopeKey(workspaceID), ID: id, Body: body}); err != nil {
		return fmt.Errorf("store: write %s %s: %w", table, id, err)
	}
	return nil
}

// Tasks

func (p *persistence) ListTasks(ctx context.Context, scope Scope) ([]task.Task, error) {
	all, err := listOf(ctx, p.b, TableTasks, scopeKey(scope.Workspace), decodeTask)
	if err != nil {
		return nil, err
	}
	tasks := all[:0]
	for _, t := range all {
		if t.WorkspaceID != scope.Workspace {
			continue
		}
		if scope.IsPrivate() && scope.Owner != "" && t.CreatedBy != scope.Owner {
			continue
		}
		tasks = append(tasks, t)
	}
	SortTasks(tasks)
	return tasks, nil
}

// SortTasks orders tasks by position ascending, then newest first.
func SortTasks(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func (p *persistence) GetTask(ctx context.Context, id string) (task.Task, error) {
	return getOf(ctx, p.b, TableTasks, id, decodeTask)
}

func (p *persistence) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	now := p.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}
	if err := p.putJSON(TableTasks, t.WorkspaceID, t.ID, t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (p *persistence) UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	if err := patch.Validate(); err != nil {
		return task.Task{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.GetTask(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	next := patch.Apply(current, p.now())
	if err := p.putJSON(TableTasks, next.WorkspaceID, next.ID, next); err != nil {
		return task.Task{}, err
	}
	return next, nil
}

func (p *persistence) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.b.remove(TableTasks, id)
}

// Journal

func (p *persistence) ListEntries(ctx context.Context, scope Scope) ([]journal.Entry, error) {
	all, err := listOf(ctx, p.b, TableJournal, scopeKey(scope.Workspace), decodeEntry)
	if err != nil {
		return nil, err
	}
	entries := all[:0]
	for _, e := range all {
		if scope.IsPrivate() && scope.Owner != "" && e.CreatedBy != scope.Owner {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (p *persistence) GetEntry(ctx context.Context, id string) (journal.Entry, error) {
	return getOf(ctx, p.b, TableJournal, id, decodeEntry)
}

func (p *persistence) CreateEntry(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	if err := ctx.Err(); err != nil {
		return journal.Entry{}, err
	}
	now := p.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	if err := e.Validate(); err != nil {
		return journal.Entry{}, err
	}
	if err := p.putJSON(TableJournal, e.WorkspaceID, e.ID, e); err != nil {
		return journal.Entry{}, err
	}
	return e, nil
}

func (p *persistence) UpdateEntry(ctx context.Context, id, content string, typ journal.EntryType) (journal.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, err := p.GetEntry(ctx, id)
	if err != nil {
		return journal.Entry{}, err
	}
	if strings.TrimSpace(content) != "" {
		e.Content = strings.TrimSpace(content)
	}
	if typ != "" {
		e.Type = typ
	}
	e.UpdatedAt = p.now()
	if err := e.Validate(); err != nil {
		return journal.Entry{}, err
	}
	if err := p.putJSON(TableJournal, e.WorkspaceID, e.ID, e); err != nil {
		return journal.Entry{}, err
	}
	return e, nil
}

func (p *persistence) DeleteEntry(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.b.remove(TableJournal, id)
}

// Thoughts

func (p *persistence) ListThoughts(ctx context.Context, workspaceID string) ([]journal.Thought, error) {
	if workspaceID == "" {
		return nil, journal.ErrNoWorkspace
	}
	thoughts, err := listOf(ctx, p.b, TableThoughts, scopeKey(workspaceID), decodeThought)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(thoughts, func(i, j int) bool {
		return thoughts[i].CreatedAt.After(thoughts[j].CreatedAt)
	})
	return thoughts, nil
}

func (p *persistence) CreateThought(ctx context.Context, t journal.Thought) (journal.Thought, error) {
	if err := ctx.Err(); err != nil {
		return journal.Thought{}, err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = p.now()
	}
	if err := t.Validate(); err != nil {
		return journal.Thought{}, err
	}
	if err := p.putJSON(TableThoughts, t.WorkspaceID, t.ID, t); err != nil {
		return journal.Thought{}, err
	}
	return t, nil
}

func (p *persistence) DeleteThought(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.b.remove(TableThoughts, id)
}

// Workspaces

func (p *persistence) CreateWorkspace(ctx context.Context, w workspace.Workspace) (workspace.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return workspace.Workspace{}, err
	}
	if err := w.Validate(); err != nil {
		return workspace.Workspace{}, err
	}
	if err := p.putJSON(TableWorkspaces, w.ID, w.ID, w); err != nil {
		return workspace.Workspace{}, err
	}
	return w, nil
}

func (p *persistence) GetWorkspace(ctx context.Context, id string) (workspace.Workspace, error) {
	return getOf(ctx, p.b, TableWorkspaces, id, decodeWorkspace)
}

func (p *persistence) Workspaces(ctx context.Context, userID string) ([]workspace.Workspace, error) {
	members, err := listOf(ctx, p.b, TableMembers, anyScope, decodeMember)
	if err != nil {
		return nil, err
	}
	var out []workspace.Workspace
	for _, m := range members {
		if m.UserID != userID {
			continue
		}
		w, err := p.GetWorkspace(ctx, m.WorkspaceID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (p *persistence) Members(ctx context.Context, workspaceID string) ([]workspace.Member, error) {
	members, err := listOf(ctx, p.b, TableMembers, scopeKey(workspaceID), decodeMember)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}

func (p *persistence) SaveMember(ctx context.Context, m workspace.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WorkspaceID == "" || m.UserID == "" {
		return errors.New("store: member needs a workspace and a user")
	}
	return p.putJSON(TableMembers, m.WorkspaceID, m.ID, m)
}

func (p *persistence) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	members, err := p.Members(ctx, workspaceID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.UserID == userID {
			return p.b.remove(TableMembers, m.ID)
		}
	}
	return ErrNotFound
}

func (p *persistence) SaveInvite(ctx context.Context, i workspace.Invite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if i.ID == "" || i.WorkspaceID == "" || i.Code == "" {
		return errors.New("store: invite needs an id, a workspace and a code")
	}
	return p.putJSON(TableInvites, i.WorkspaceID, i.ID, i)
}

func (p *persistence) InviteByCode(ctx context.Context, code string) (workspace.Invite, error) {
	invites, err := listOf(ctx, p.b, TableInvites, anyScope, decodeInvite)
	if err != nil {
		return workspace.Invite{}, err
	}
	for _, i := range invites {
		if i.Code == strings.TrimSpace(code) {
			return i, nil
		}
	}
	return workspace.Invite{}, workspace.ErrInviteNotFound
}

// ListInvites returns the invites of a workspace, newest first.
func (p *persistence) ListInvites(ctx context.Context, workspaceID string) ([]workspace.Invite, error) {
	invites, err := listOf(ctx, p.b, TableInvites, scopeKey(workspaceID), decodeInvite)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(invites, func(i, j int) bool {
		return invites[i].CreatedAt.After(invites[j].CreatedAt)
	})
	return invites, nil
}

func (p *persistence) DeleteInvite(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.b.remove(TableInvites, id)
}

// Profiles

func (p *persistence) Profile(ctx context.Context, userID string) (account.Profile, error) {
	return getOf(ctx, p.b, TableProfiles, userID, decodeProfile)
}

func (p *persistence) SaveProfile(ctx context.Context, prof account.Profile) (account.Profile, error) {
	if err := ctx.Err(); err != nil {
		return account.Profile{}, err
	}
	if prof.UserID == "" {
		return account.Profile{}, errors.New("store: profile needs a user id")
	}
	prof.UpdatedAt = p.now()
	if err := p.putJSON(TableProfiles, "", prof.UserID, prof); err != nil {
		return account.Profile{}, err
	}
	return prof, nil
}

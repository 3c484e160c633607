package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/view"
	"tableflip.dev/taskflow/pkg/workspace"
)

type testConfig struct {
	path    string
	backend string
}

func (t testConfig) BasePath() string {
	return t.path
}

func (t testConfig) Backend() string {
	return t.backend
}

// backends runs fn against every backend.
func backends(t *testing.T, fn func(t *testing.T, p Persistence)) {
	for _, kind := range []string{BackendMemory, BackendDiskv, BackendSQLite} {
		t.Run(kind, func(t *testing.T) {
			p, err := Load(testConfig{path: t.TempDir(), backend: kind})
			if err != nil {
				t.Fatalf("load %s: %v", kind, err)
			}
			t.Cleanup(func() { _ = p.Close() })
			fn(t, p)
		})
	}
}

func newTask(title, owner, ws string, position int, created time.Time) task.Task {
	tk := task.New(title, owner)
	tk.WorkspaceID = ws
	tk.Position = position
	tk.CreatedAt = created
	return tk
}

func TestTaskCRUD(t *testing.T) {
	backends(t, func(t *testing.T, p Persistence) {
		ctx := context.Background()
		created, err := p.CreateTask(ctx, task.New("write report", "u1"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := p.GetTask(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Title != "write report" || got.Status != task.StatusTodo {
			t.Fatalf("unexpected task %+v", got)
		}

		time.Sleep(2 * time.Millisecond)
		updated, err := p.UpdateTask(ctx, created.ID, task.StatusPatch(task.StatusInProgress))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Status != task.StatusInProgress || !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Fatalf("update not applied: %+v", updated)
		}

		if err := p.DeleteTask(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := p.GetTask(ctx, created.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := p.DeleteTask(ctx, created.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	backends(t, func(t *testing.T, p Persistence) {
		ctx := context.Background()
		created, err := p.CreateTask(ctx, task.New("keep me", "u1"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := p.UpdateTask(ctx, created.ID, task.StatusPatch("blocked")); !errors.Is(err, task.ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
		got, _ := p.GetTask(ctx, created.ID)
		if got.Status != task.StatusTodo {
			t.Fatalf("status changed to %q", got.Status)
		}
	})
}

func TestListTasksOrderAndScope(t *testing.T) {
	backends(t, func(t *testing.T, p Persistence) {
		ctx := context.Background()
		base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		fixtures := []task.Task{
			newTask("second-old", "u1", "", 1, base),
			newTask("first", "u1", "", 0, base),
			newTask("second-new", "u1", "", 1, base.Add(time.Hour)),
			newTask("someone else", "u2", "", 0, base),
			newTask("team", "u1", "w1", 0, base),
		}
		for _, tk := range fixtures {
			if _, err := p.CreateTask(ctx, tk); err != nil {
				t.Fatalf("create %s: %v", tk.Title, err)
			}
		}

		private, err := p.ListTasks(ctx, Private("u1"))
		if err != nil {
			t.Fatalf("list private: %v", err)
		}
		want := []string{"first", "second-new", "second-old"}
		if len(private) != len(want) {
			t.Fatalf("expected %d private tasks, got %d", len(want), len(private))
		}
		for i, title := range want {
			if private[i].Title != title {
				t.Fatalf("position %d: expected %q, got %q", i, title, private[i].Title)
			}
		}

		team, err := p.ListTasks(ctx, InWorkspace("w1"))
		if err != nil {
			t.Fatalf("list workspace: %v", err)
		}
		if len(team) != 1 || team[0].Title != "team" {
			t.Fatalf("unexpected workspace tasks %+v", team)
		}
	})
}

func TestMalformedRecordsAreSkipped(t *testing.T) {
	p := NewMemory().(*persistence)
	ctx := context.Background()
	if _, err := p.CreateTask(ctx, task.New("good", "u1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	bad := []record{
		{Table: TableTasks, Scope: privateScope, ID: "not-json", Body: []byte(`{`)},
		{Table: TableTasks, Scope: privateScope, ID: "bad-status", Body: []byte(`{"id":"bad-status","title":"x","status":"blocked","created_by":"u1"}`)},
		{Table: TableTasks, Scope: privateScope, ID: "no-title", Body: []byte(`{"id":"no-title","status":"todo","created_by":"u1"}`)},
		{Table: TableTasks, Scope: privateScope, ID: "bad-position", Body: []byte(`{"id":"bad-position","title":"x","status":"todo","position":"top"}`)},
	}
	for _, r := range bad {
		if err := p.b.put(r); err != nil {
			t.Fatalf("put raw: %v", err)
		}
	}

	tasks, err := p.ListTasks(ctx, Private(""))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "good" {
		t.Fatalf("expected only the valid task, got %+v", tasks)
	}
}

func TestDecodeDefaultsPriority(t *testing.T) {
	tk, err := decodeTask([]byte(`{"id":"1","title":"legacy","status":"done","due_date":null,"due_time":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tk.Priority != task.PriorityMedium || tk.DueDate != "" {
		t.Fatalf("unexpected decode %+v", tk)
	}
}

func TestJournalAndThoughts(t *testing.T) {
	backends(t, func(t *testing.T, p Persistence) {
		ctx := context.Background()
		older := journal.NewEntry("first", journal.TypeNote, "u1")
		older.CreatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		newer := journal.NewEntry("second", journal.TypeImprovement, "u1")
		newer.CreatedAt = older.CreatedAt.Add(time.Hour)
		for _, e := range []journal.Entry{older, newer} {
			if _, err := p.CreateEntry(ctx, e); err != nil {
				t.Fatalf("create entry: %v", err)
			}
		}

		entries, err := p.ListEntries(ctx, Private("u1"))
		if err != nil {
			t.Fatalf("list entries: %v", err)
		}
		if len(entries) != 2 || entries[0].Content != "second" {
			t.Fatalf("expected newest first, got %+v", entries)
		}

		edited, err := p.UpdateEntry(ctx, older.ID, "first, edited", journal.TypeAchievedGoal)
		if err != nil {
			t.Fatalf("update entry: %v", err)
		}
		if edited.Content != "first, edited" || edited.Type != journal.TypeAchievedGoal {
			t.Fatalf("unexpected edit %+v", edited)
		}

		if _, err := p.ListThoughts(ctx, ""); !errors.Is(err, journal.ErrNoWorkspace) {
			t.Fatalf("expected ErrNoWorkspace, got %v", err)
		}
		th := journal.NewThought("retro on friday", journal.ThoughtGoal, "w1", "u1")
		if _, err := p.CreateThought(ctx, th); err != nil {
			t.Fatalf("create thought: %v", err)
		}
		thoughts, err := p.ListThoughts(ctx, "w1")
		if err != nil || len(thoughts) != 1 {
			t.Fatalf("list thoughts: %v %+v", err, thoughts)
		}
		if err := p.DeleteThought(ctx, th.ID); err != nil {
			t.Fatalf("delete thought: %v", err)
		}
	})
}

func TestWorkspacesAndInvites(t *testing.T) {
	backends(t, func(t *testing.T, p Persistence) {
		ctx := context.Background()
		w, err := p.CreateWorkspace(ctx, workspace.New("Team", "", "u1"))
		if err != nil {
			t.Fatalf("create workspace: %v", err)
		}
		if err := p.SaveMember(ctx, workspace.NewMember(w.ID, "u1", workspace.RoleOwner)); err != nil {
			t.Fatalf("save member: %v", err)
		}

		mine, err := p.Workspaces(ctx, "u1")
		if err != nil || len(mine) != 1 || mine[0].ID != w.ID {
			t.Fatalf("workspaces: %v %+v", err, mine)
		}
		others, _ := p.Workspaces(ctx, "u2")
		if len(others) != 0 {
			t.Fatalf("u2 should not see the workspace")
		}

		inv := workspace.NewInvite(w.ID, "u1", time.Time{}, 3)
		if err := p.SaveInvite(ctx, inv); err != nil {
			t.Fatalf("save invite: %v", err)
		}
		got, err := p.InviteByCode(ctx, inv.Code)
		if err != nil || got.ID != inv.ID || *got.MaxUses != 3 {
			t.Fatalf("invite by code: %v %+v", err, got)
		}
		if _, err := p.InviteByCode(ctx, "nope"); !errors.Is(err, workspace.ErrInviteNotFound) {
			t.Fatalf("expected ErrInviteNotFound, got %v", err)
		}

		newer := workspace.NewInvite(w.ID, "u1", time.Time{}, 0)
		newer.CreatedAt = inv.CreatedAt.Add(time.Minute)
		if err := p.SaveInvite(ctx, newer); err != nil {
			t.Fatalf("save invite: %v", err)
		}
		elsewhere := workspace.NewInvite("other", "u9", time.Time{}, 0)
		if err := p.SaveInvite(ctx, elsewhere); err != nil {
			t.Fatalf("save invite: %v", err)
		}
		invites, err := p.ListInvites(ctx, w.ID)
		if err != nil {
			t.Fatalf("list invites: %v", err)
		}
		if len(invites) != 2 || invites[0].ID != newer.ID || invites[1].ID != inv.ID {
			t.Fatalf("expected the two workspace invites newest first, got %+v", invites)
		}
		if err := p.DeleteInvite(ctx, newer.ID); err != nil {
			t.Fatalf("delete invite: %v", err)
		}
		if err := p.DeleteInvite(ctx, newer.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := p.InviteByCode(ctx, newer.Code); !errors.Is(err, workspace.ErrInviteNotFound) {
			t.Fatalf("deleted invite should not redeem, got %v", err)
		}
		if invites, _ := p.ListInvites(ctx, w.ID); len(invites) != 1 {
			t.Fatalf("expected one invite left, got %d", len(invites))
		}

		if err := p.RemoveMember(ctx, w.ID, "u1"); err != nil {
			t.Fatalf("remove member: %v", err)
		}
		if err := p.RemoveMember(ctx, w.ID, "u1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestProfiles(t *testing.T) {
	backends(t, func(t *testing.T, p Persistence) {
		ctx := context.Background()
		if _, err := p.Profile(ctx, "u1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		prof := account.DefaultProfile(account.Session{UserID: "u1"})
		prof.AppMode = view.ModeTasks
		if _, err := p.SaveProfile(ctx, prof); err != nil {
			t.Fatalf("save profile: %v", err)
		}
		got, err := p.Profile(ctx, "u1")
		if err != nil || got.AppMode != view.ModeTasks {
			t.Fatalf("profile: %v %+v", err, got)
		}
	})
}

func TestWatchEmitsWorkspaceEvents(t *testing.T) {
	backends(t, func(t *testing.T, p Persistence) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch, err := p.Watch(ctx)
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
		// Allow the watcher to subscribe before writing.
		time.Sleep(50 * time.Millisecond)

		tk := task.New("shared", "u1")
		tk.WorkspaceID = "w1"
		if _, err := p.CreateTask(context.Background(), tk); err != nil {
			t.Fatalf("create: %v", err)
		}

		deadline := time.After(3 * time.Second)
		for {
			select {
			case ev := <-ch:
				if ev.Affects(TableTasks, InWorkspace("w1")) {
					return
				}
			case <-deadline:
				t.Fatal("timed out waiting for change event")
			}
		}
	})
}

func TestEventAffects(t *testing.T) {
	tests := []struct {
		ev    Event
		table string
		scope Scope
		want  bool
	}{
		{ev: Event{}, table: TableTasks, scope: InWorkspace("w"), want: true},
		{ev: Event{Table: TableTasks, Workspace: "w"}, table: TableTasks, scope: InWorkspace("w"), want: true},
		{ev: Event{Table: TableTasks, Workspace: "x"}, table: TableTasks, scope: InWorkspace("w"), want: false},
		{ev: Event{Table: TableJournal, Workspace: "w"}, table: TableTasks, scope: InWorkspace("w"), want: false},
		{ev: Event{Table: TableTasks}, table: TableTasks, scope: Private("u"), want: true},
	}
	for i, tt := range tests {
		if got := tt.ev.Affects(tt.table, tt.scope); got != tt.want {
			t.Errorf("case %d: Affects = %v, want %v", i, got, tt.want)
		}
	}
}

func TestKeyTransformRoundTrip(t *testing.T) {
	key := toKey(TableTasks, "w-1/2", "1f0c6b3e-0000-4000-8000-000000000000")
	pk := keyToPathTransform(key)
	if len(pk.Path) != 2 || pk.FileName != "1f0c6b3e-0000-4000-8000-000000000000" {
		t.Fatalf("unexpected path key %+v", pk)
	}
	if fromScope(pk.Path[1]) != "w-1/2" {
		t.Fatalf("scope did not survive encoding: %q", fromScope(pk.Path[1]))
	}
	if got := pathToKeyTransform(pk); got != key {
		t.Fatalf("round trip %q != %q", got, key)
	}
	if ev := eventForPath("/base", "/base/"+key); ev.Table != TableTasks || ev.Workspace != "w-1/2" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

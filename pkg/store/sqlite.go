package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteFile is the database file name under the configured base path.
const SQLiteFile = "taskflow.db"

// pollInterval is how often the change feed checks for writes by other processes.
const pollInterval = 500 * time.Millisecond

// sqliteBackend keeps every record in one table keyed by (tbl, id).
type sqliteBackend struct {
	db     *sql.DB
	events *broadcaster
}

func newSQLite(basePath string) (*sqliteBackend, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(basePath, SQLiteFile)+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	b := &sqliteBackend{db: db, events: newBroadcaster()}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *sqliteBackend) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			tbl TEXT NOT NULL,
			scope TEXT NOT NULL,
			id TEXT NOT NULL,
			body BLOB NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (tbl, id)
		);

		CREATE INDEX IF NOT EXISTS idx_records_scope ON records(tbl, scope);
	`
	if _, err := b.db.Exec(schema); err != nil {
		return fmt.Errorf("store: migrate sqlite: %w", err)
	}
	return nil
}

func (b *sqliteBackend) put(r record) error {
	_, err := b.db.Exec(`
		INSERT INTO records (tbl, scope, id, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tbl, id) DO UPDATE SET scope = excluded.scope, body = excluded.body, updated_at = excluded.updated_at
	`, r.Table, r.Scope, r.ID, r.Body, time.Now().UTC())
	if err != nil {
		return err
	}
	b.events.publish(Event{Table: r.Table, Workspace: workspaceOf(r.Scope)})
	return nil
}

func (b *sqliteBackend) get(table, id string) (record, error) {
	r := record{Table: table, ID: id}
	err := b.db.QueryRow(`SELECT scope, body FROM records WHERE tbl = ? AND id = ?`, table, id).Scan(&r.Scope, &r.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return record{}, fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	if err != nil {
		return record{}, err
	}
	return r, nil
}

func (b *sqliteBackend) list(table, scope string) ([]record, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if scope == anyScope {
		rows, err = b.db.Query(`SELECT scope, id, body FROM records WHERE tbl = ? ORDER BY id`, table)
	} else {
		rows, err = b.db.Query(`SELECT scope, id, body FROM records WHERE tbl = ? AND scope = ? ORDER BY id`, table, scope)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record
	for rows.Next() {
		r := record{Table: table}
		if err := rows.Scan(&r.Scope, &r.ID, &r.Body); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (b *sqliteBackend) remove(table, id string) error {
	var scope string
	err := b.db.QueryRow(`DELETE FROM records WHERE tbl = ? AND id = ? RETURNING scope`, table, id).Scan(&scope)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	if err != nil {
		return err
	}
	b.events.publish(Event{Table: table, Workspace: workspaceOf(scope)})
	return nil
}

// watch merges in-process writes with writes from other processes. The latter are
// detected through PRAGMA data_version on a dedicated connection and reported as the
// catch-all event.
func (b *sqliteBackend) watch(ctx context.Context) (<-chan Event, error) {
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: sqlite watch connection: %w", err)
	}
	version, err := dataVersion(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	local := b.events.subscribe(ctx)
	out := make(chan Event, 64)
	go func() {
		defer close(out)
		defer conn.Close()

		send := func(ev Event) {
			select {
			case out <- ev:
			default:
			}
		}
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-local:
				if !ok {
					return
				}
				send(ev)
			case <-ticker.C:
				// data_version moves for commits on any other connection, pooled ones
				// of this process included, so a local write may also show up here as
				// a catch-all event.
				v, err := dataVersion(ctx, conn)
				if err != nil {
					if ctx.Err() == nil {
						fmt.Fprintf(os.Stderr, "store: sqlite data_version: %v\n", err)
					}
					continue
				}
				if v != version {
					version = v
					send(Event{})
				}
			}
		}
	}()
	return out, nil
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("store: read data_version: %w", err)
	}
	return v, nil
}

func (b *sqliteBackend) close() error {
	return b.db.Close()
}

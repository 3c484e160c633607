package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// memoryBackend keeps records in a map. Listing order is by key so results are stable.
type memoryBackend struct {
	mu      sync.RWMutex
	records map[string]map[string]record // table -> id -> record
	events  *broadcaster
}

func newMemory() *memoryBackend {
	return &memoryBackend{records: make(map[string]map[string]record), events: newBroadcaster()}
}

func (m *memoryBackend) put(r record) error {
	m.mu.Lock()
	if m.records[r.Table] == nil {
		m.records[r.Table] = make(map[string]record)
	}
	r.Body = append([]byte(nil), r.Body...)
	m.records[r.Table][r.ID] = r
	m.mu.Unlock()
	m.events.publish(Event{Table: r.Table, Workspace: workspaceOf(r.Scope)})
	return nil
}

func (m *memoryBackend) get(table, id string) (record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[table][id]
	if !ok {
		return record{}, fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	return r, nil
}

func (m *memoryBackend) list(table, scope string) ([]record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]record, 0, len(m.records[table]))
	for _, r := range m.records[table] {
		if scope == anyScope || r.Scope == scope {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryBackend) remove(table, id string) error {
	m.mu.Lock()
	r, ok := m.records[table][id]
	if ok {
		delete(m.records[table], id)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	m.events.publish(Event{Table: table, Workspace: workspaceOf(r.Scope)})
	return nil
}

func (m *memoryBackend) watch(ctx context.Context) (<-chan Event, error) {
	return m.events.subscribe(ctx), nil
}

func (m *memoryBackend) close() error {
	return nil
}

package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// diskvBackend stores each record as a JSON file at <base>/<table>/<scope>/<id>, the scope
// being base64url encoded.
type diskvBackend struct {
	d        *diskv.Diskv
	basePath string
}

func newDiskv(basePath string) (*diskvBackend, error) {
	if basePath == "" {
		return nil, errors.New("store: diskv needs a base path")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &diskvBackend{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

func (b *diskvBackend) put(r record) error {
	return b.d.Write(toKey(r.Table, r.Scope, r.ID), r.Body)
}

func (b *diskvBackend) get(table, id string) (record, error) {
	key, ok := b.find(table, id)
	if !ok {
		return record{}, fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	body, err := b.d.Read(key)
	if err != nil {
		return record{}, err
	}
	pk := keyToPathTransform(key)
	return record{Table: table, Scope: fromScope(pk.Path[1]), ID: id, Body: body}, nil
}

func (b *diskvBackend) list(table, scope string) ([]record, error) {
	prefix := table + "/"
	if scope != anyScope {
		prefix += toScope(scope) + "/"
	}
	var out []record
	for key := range b.d.KeysPrefix(prefix, nil) {
		body, err := b.d.Read(key)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		pk := keyToPathTransform(key)
		if len(pk.Path) != 2 {
			continue
		}
		out = append(out, record{Table: table, Scope: fromScope(pk.Path[1]), ID: pk.FileName, Body: body})
	}
	return out, nil
}

func (b *diskvBackend) remove(table, id string) error {
	key, ok := b.find(table, id)
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	return b.d.Erase(key)
}

func (b *diskvBackend) close() error {
	return nil
}

func (b *diskvBackend) find(table, id string) (string, bool) {
	cancel := make(chan struct{})
	defer close(cancel)
	for key := range b.d.KeysPrefix(table+"/", cancel) {
		if strings.HasSuffix(key, "/"+id) {
			return key, true
		}
	}
	return "", false
}

func (b *diskvBackend) watch(ctx context.Context) (<-chan Event, error) {
	return watchDir(ctx, b.basePath)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

// toKey makes `table/scope/id`.
func toKey(table, scope, id string) string {
	return fmt.Sprintf("%s/%s/%s", table, toScope(scope), id)
}

func toScope(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func fromScope(s string) string {
	scope, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromScope: %s", err)
	}
	return string(scope)
}

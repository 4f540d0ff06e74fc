// Package memory provides in-memory implementations of storage ports,
// used by service tests and for ephemeral deployments. All stores share one
// DB so that InTx can serialize multi-step mutations the way a storage
// transaction would.
package memory

import (
	"context"
	"sync"

	"github.com/jhiver/doxyde-sub000/domain/component"
	"github.com/jhiver/doxyde-sub000/domain/page"
	"github.com/jhiver/doxyde-sub000/domain/version"
)

// DB holds the shared in-memory state.
type DB struct {
	mu         sync.RWMutex
	pages      map[string]page.Page
	versions   map[string]version.Version
	components map[string]component.Component
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		pages:      make(map[string]page.Page),
		versions:   make(map[string]version.Version),
		components: make(map[string]component.Component),
	}
}

type txKey struct{}

// InTx serializes fn against all other store access. There is no rollback:
// services validate before writing, so a failed operation has produced no
// writes by the time it returns.
func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	held, _ := ctx.Value(txKey{}).(bool)
	return held
}

// lock acquires the write lock unless the context already holds the
// transaction lock. It returns the matching unlock.
func (db *DB) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	db.mu.Lock()
	return db.mu.Unlock
}

func (db *DB) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	db.mu.RLock()
	return db.mu.RUnlock
}

// Package store provides the fitness cache backends selectable at run time.
package store

import (
	"context"
	"fmt"

	"github.com/dramtune/dramtune/search"
)

// Backend names accepted by NewCache.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// ValidBackends is the set of recognized backend names. Empty means BackendMemory.
var ValidBackends = map[string]bool{"": true, BackendMemory: true, BackendSQLite: true}

// NewCache opens the named backend. sqlitePath and scope are used by the sqlite backend only.
func NewCache(ctx context.Context, kind, sqlitePath, scope string) (search.Cache, error) {
	switch kind {
	case "", BackendMemory:
		return search.NewMemoryCache(), nil
	case BackendSQLite:
		c := NewSQLiteCache(sqlitePath, scope)
		if err := c.Init(ctx); err != nil {
			return nil, fmt.Errorf("opening sqlite cache %s: %w", sqlitePath, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", kind)
	}
}

// CloseIfSupported closes backends that hold resources.
func CloseIfSupported(c search.Cache) error {
	closer, ok := c.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

package registry

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vk/taskgridgo/internal/model"
)

// defaultCacheSize bounds each of the two definition caches.
const defaultCacheSize = 1024

// taskKey distinguishes fallback-allowed lookups from strict ones; the two
// can legitimately return different results for the same short name.
type taskKey struct {
	name     string
	fallback bool
}

type taskEntry struct {
	def   *model.TaskDefinition
	found bool
}

type typeEntry struct {
	def   *model.TypeDefinition
	found bool
}

// Cached wraps a Registry with LRU caches over both lookup kinds. Negative
// results are cached too; lookup failures (errors) are not. Completion walks
// the type closure of every referenced task, so repeated lookups against a
// remote-backed registry are the common case.
type Cached struct {
	inner Registry
	tasks *lru.Cache[taskKey, taskEntry]
	types *lru.Cache[string, typeEntry]
}

// NewCached wraps inner with caches of the default size.
func NewCached(inner Registry) (*Cached, error) {
	tasks, err := lru.New[taskKey, taskEntry](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build task cache: %w", err)
	}
	types, err := lru.New[string, typeEntry](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build type cache: %w", err)
	}
	return &Cached{inner: inner, tasks: tasks, types: types}, nil
}

// TaskDefinition implements Registry.
func (c *Cached) TaskDefinition(ctx context.Context, shortName string, allowFallback bool) (*model.TaskDefinition, bool, error) {
	key := taskKey{name: shortName, fallback: allowFallback}
	if entry, ok := c.tasks.Get(key); ok {
		return entry.def, entry.found, nil
	}
	def, found, err := c.inner.TaskDefinition(ctx, shortName, allowFallback)
	if err != nil {
		return nil, false, err
	}
	c.tasks.Add(key, taskEntry{def: def, found: found})
	return def, found, nil
}

// TypeDefinition implements Registry.
func (c *Cached) TypeDefinition(ctx context.Context, name string) (*model.TypeDefinition, bool, error) {
	if entry, ok := c.types.Get(name); ok {
		return entry.def, entry.found, nil
	}
	def, found, err := c.inner.TypeDefinition(ctx, name)
	if err != nil {
		return nil, false, err
	}
	c.types.Add(name, typeEntry{def: def, found: found})
	return def, found, nil
}

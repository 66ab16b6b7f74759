package plugin

import (
	"context"
	"fmt"
	"sync"
)

// Dispatcher hands one resolved step invocation to a task implementation
// and returns whatever it produced. Implementations are opaque to the
// engine: a returned error aborts the run and propagates unchanged.
type Dispatcher interface {
	Dispatch(ctx context.Context, coord Coordinate, args []any, kwargs map[string]any) (any, error)
}

// TaskFunc is the shape of an in-process task implementation.
type TaskFunc func(ctx context.Context, args []any, kwargs map[string]any) (any, error)

// GoDispatcher dispatches to Go functions registered under their dotted
// coordinate. It is safe for concurrent registration and dispatch.
type GoDispatcher struct {
	mu    sync.RWMutex
	funcs map[string]TaskFunc
}

// NewGoDispatcher returns an empty dispatcher.
func NewGoDispatcher() *GoDispatcher {
	return &GoDispatcher{funcs: make(map[string]TaskFunc)}
}

// Register binds a coordinate string (e.g. "builtins.math.add") to fn.
func (d *GoDispatcher) Register(coordinate string, fn TaskFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.funcs[coordinate] = fn
}

// Dispatch implements Dispatcher.
func (d *GoDispatcher) Dispatch(ctx context.Context, coord Coordinate, args []any, kwargs map[string]any) (any, error) {
	d.mu.RLock()
	fn, ok := d.funcs[coord.String()]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no task registered for plugin %q", coord)
	}
	return fn(ctx, args, kwargs)
}

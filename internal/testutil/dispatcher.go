package testutil

import (
	"context"
	"sync"

	"github.com/vk/taskgridgo/internal/plugin"
)

// Invocation records a single dispatched task call.
type Invocation struct {
	Coordinate string
	Args       []any
	Kwargs     map[string]any
}

// RecordingDispatcher remembers every call in order. Coordinates without a
// registered function return a fixed fallback value instead of an error, so
// graphs run without wiring every task.
type RecordingDispatcher struct {
	mu       sync.Mutex
	funcs    map[string]plugin.TaskFunc
	calls    []Invocation
	Fallback any
}

// NewRecordingDispatcher creates a dispatcher with no registered tasks.
func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{funcs: make(map[string]plugin.TaskFunc)}
}

// Register binds a coordinate to a task function, as on plugin.GoDispatcher.
func (d *RecordingDispatcher) Register(coordinate string, fn plugin.TaskFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.funcs[coordinate] = fn
}

// Dispatch implements plugin.Dispatcher.
func (d *RecordingDispatcher) Dispatch(ctx context.Context, coord plugin.Coordinate, args []any, kwargs map[string]any) (any, error) {
	d.mu.Lock()
	d.calls = append(d.calls, Invocation{Coordinate: coord.String(), Args: args, Kwargs: kwargs})
	fn, ok := d.funcs[coord.String()]
	fallback := d.Fallback
	d.mu.Unlock()

	if !ok {
		return fallback, nil
	}
	return fn(ctx, args, kwargs)
}

// Calls returns a copy of the recorded invocations in dispatch order.
func (d *RecordingDispatcher) Calls() []Invocation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Invocation(nil), d.calls...)
}

// Coordinates returns just the coordinate strings of recorded calls.
func (d *RecordingDispatcher) Coordinates() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	coords := make([]string, len(d.calls))
	for i, call := range d.calls {
		coords[i] = call.Coordinate
	}
	return coords
}

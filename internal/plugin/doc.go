// Package plugin defines how the executor hands a step invocation to the
// outside world: the dotted plugin coordinate naming a task function, and
// the Dispatcher interface that accepts one call. A Go-function-backed
// dispatcher is included for tests and for running descriptions whose tasks
// are implemented in-process.
package plugin

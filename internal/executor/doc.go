// Package executor runs a validated experiment description: it resolves the
// global parameters, computes the topological step order once, and executes
// every step strictly in sequence, binding each task's return value to the
// step's declared outputs.
//
// Execution is deliberately single-threaded even where the graph would allow
// parallelism; determinism and simple failure semantics win over throughput
// here. The only suspension points are inside dispatched task calls, which
// are opaque to the engine — cancellation and timeouts belong to the owning
// process, via the context it passes in.
package executor

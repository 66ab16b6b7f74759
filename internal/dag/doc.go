// Package dag resolves the dependency structure of a step graph: it
// extracts each step's dependency set (implicit, from `$` references in the
// argument spec, plus explicit `dependencies`) and produces a total
// execution order via depth-first topological sort with cycle detection.
//
// The sort is iterative: an explicit frame stack replaces recursion, so
// graph depth is bounded by memory rather than goroutine stack, and the
// "currently on the search path" test is a set lookup.
package dag

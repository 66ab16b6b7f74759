// Package completion enriches a partial experiment description into a
// self-contained one by pulling task and type definitions from a registry,
// under a caller-chosen policy, and pruning definitions nothing references.
//
// Completion sits between schema validation and semantic validation: it
// requires a schema-valid document (so the graph's task references are
// readable) but must tolerate everything semantic validation will later
// reject, including cyclic type definitions.
package completion

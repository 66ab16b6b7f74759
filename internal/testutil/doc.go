// Package testutil provides shared helpers for tests: decoding inline YAML
// descriptions, building in-memory registries, and a dispatcher that records
// every task invocation.
package testutil

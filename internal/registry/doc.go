// Package registry defines the task/type definition registry the completion
// engine consults, together with a static in-memory implementation and an
// LRU-caching wrapper.
//
// Lookups distinguish three outcomes: found, not found, and failed. For type
// definitions "found" may carry a nil definition — a type declared as null
// is a real, structureless simple type, which is not the same thing as an
// absent entry.
package registry

// Package validate implements the semantic and static type-checking passes
// over a decoded experiment description.
//
// The passes run in a fixed order and each is skipped when the pass it
// builds on has already failed, so a single root cause does not cascade into
// a wall of secondary noise. No pass ever returns an error or panics on
// description content: every problem becomes an accumulated Issue, and the
// caller decides what an error-severity issue gates.
package validate

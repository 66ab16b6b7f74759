// Package refs implements the `$` reference syntax of experiment
// descriptions: recognizing references, escaping, resolving a reference
// against run state, and recursively substituting references throughout an
// argument spec.
//
// A reference is a string beginning with `$` that names either a global
// parameter (`$learning_rate`) or a step output (`$train.model`, or bare
// `$train` when the step has exactly one output). A leading `$$` escapes to
// a literal `$`.
package refs

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the StepDefinition structure, the atomic unit of work in
// the graph. A step names a task and describes how its arguments are
// supplied.
//
// Why keep argument values as plain `any`?
//
// Argument specs may nest mappings and lists arbitrarily deep, and any string
// inside them may be a `$` reference whose value only exists once earlier
// steps have run. The model therefore captures the user's spec verbatim and
// leaves resolution to the reference resolver, at type-check time (against
// declared types) and again at execution time (against produced values).
package model

// StepForm discriminates the syntactic form a step was written in.
type StepForm int

const (
	// ShortForm is the one-property form: the property name is the task and
	// its value is the argument spec.
	ShortForm StepForm = iota
	// LongForm is the explicit form with `task`, `args`, `kwargs`, and
	// `dependencies` properties.
	LongForm
)

// StepDefinition is the decoded representation of one step in the graph.
type StepDefinition struct {
	Form StepForm

	// Task is the short name of the invoked task.
	Task string

	// Args holds positional argument specs, in order.
	Args []any

	// Kwargs holds keyword argument specs.
	Kwargs map[string]any

	// Dependencies holds explicit dependency step names. A bare string in
	// the document is normalized to a one-element slice at decode time.
	Dependencies []string

	// BadShape is true when a short-form step did not have exactly one
	// non-dependency property. ShapeProperties records the property names it
	// did have; the validator reports them and downstream passes skip the
	// step.
	BadShape        bool
	ShapeProperties []string
}

// ArgumentValues returns every argument spec value of the step, positional
// first, keyword values in sorted key order. It is the scan surface for
// implicit dependency extraction and type-checking.
func (s *StepDefinition) ArgumentValues() []any {
	values := make([]any, 0, len(s.Args)+len(s.Kwargs))
	values = append(values, s.Args...)
	for _, k := range sortedKeys(s.Kwargs) {
		values = append(values, s.Kwargs[k])
	}
	return values
}

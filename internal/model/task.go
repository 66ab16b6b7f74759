// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// TaskDefinition declares the contract of an external task plugin: where to
// find it and the types it consumes and produces.
type TaskDefinition struct {
	// Plugin is the fully-qualified plugin coordinate, e.g.
	// "mypkg.registry.load_dataset". It is split from the right on `.` into
	// (package, module, function) at dispatch time.
	Plugin string

	// Inputs lists the task's input parameters in declaration order.
	Inputs []TaskInput

	// Outputs lists the task's outputs in declaration order.
	Outputs []TaskOutput

	// DestructureOutputs is true when the outputs were declared as a list:
	// the task's return value is destructured positionally across them.
	// When false, a single output binds the whole return value.
	DestructureOutputs bool
}

// TaskInput is one declared input parameter of a task.
type TaskInput struct {
	Name     string
	Type     string
	Required bool
}

// TaskOutput is one declared output of a task.
type TaskOutput struct {
	Name string
	Type string
}

// Input returns the declared input with the given name, or nil.
func (t *TaskDefinition) Input(name string) *TaskInput {
	for i := range t.Inputs {
		if t.Inputs[i].Name == name {
			return &t.Inputs[i]
		}
	}
	return nil
}

// Output returns the declared output with the given name, or nil.
func (t *TaskDefinition) Output(name string) *TaskOutput {
	for i := range t.Outputs {
		if t.Outputs[i].Name == name {
			return &t.Outputs[i]
		}
	}
	return nil
}

// TypeNames returns every type name referenced by the task's inputs and
// outputs, deduplicated, in first-appearance order. The completion engine
// seeds its type closure from these.
func (t *TaskDefinition) TypeNames() []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, in := range t.Inputs {
		add(in.Type)
	}
	for _, out := range t.Outputs {
		add(out.Type)
	}
	return names
}

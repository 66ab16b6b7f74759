// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Description is the root of a decoded experiment description. It is built
// fresh for every validation or run and is never mutated concurrently.
type Description struct {
	// Parameters declares the global parameters a caller must or may supply.
	// Nil when the document has no `parameters` key.
	Parameters *ParameterSpec

	// Tasks maps a task short name to its definition. The completion engine
	// may add, replace, and prune entries; a nil map means the description
	// carries no task definitions of its own.
	Tasks map[string]*TaskDefinition

	// Graph maps a step name to its definition.
	Graph map[string]*StepDefinition

	// Types maps a type name to its definition. A present key with a nil
	// value is meaningful: it declares a plain simple type with no structure.
	Types map[string]*TypeDefinition
}

// StepNames returns the names of all steps in the graph, sorted for
// deterministic iteration.
func (d *Description) StepNames() []string {
	return sortedKeys(d.Graph)
}

// HasType reports whether the named type is declared, even if its definition
// is null.
func (d *Description) HasType(name string) bool {
	_, ok := d.Types[name]
	return ok
}

// SetType declares (or replaces) a named type definition. A nil def is a
// valid declaration of a structureless simple type.
func (d *Description) SetType(name string, def *TypeDefinition) {
	if d.Types == nil {
		d.Types = make(map[string]*TypeDefinition)
	}
	d.Types[name] = def
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// ParameterSpec declares the global parameters of a description. Exactly one
// of List and Mapping is populated, matching the two document forms: a bare
// list of required names, or a mapping from name to definition.
type ParameterSpec struct {
	// List holds the names of a list-form spec; every one is required.
	List []string

	// Mapping holds the definitions of a mapping-form spec.
	Mapping map[string]*ParameterDefinition
}

// ParameterDefinition describes one mapping-form global parameter.
type ParameterDefinition struct {
	// Type is the declared type name, empty when omitted.
	Type string

	// Default is the declared default value. HasDefault distinguishes an
	// explicit null default from no default at all.
	Default    any
	HasDefault bool
}

// IsList reports whether the spec is the list form.
func (p *ParameterSpec) IsList() bool {
	return p != nil && p.List != nil
}

// Names returns all declared parameter names, sorted for mapping-form specs
// and in declaration order for list-form specs.
func (p *ParameterSpec) Names() []string {
	if p == nil {
		return nil
	}
	if p.IsList() {
		return p.List
	}
	return sortedKeys(p.Mapping)
}

// Has reports whether the named parameter is declared.
func (p *ParameterSpec) Has(name string) bool {
	if p == nil {
		return false
	}
	if p.IsList() {
		for _, n := range p.List {
			if n == name {
				return true
			}
		}
		return false
	}
	_, ok := p.Mapping[name]
	return ok
}

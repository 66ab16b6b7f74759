// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// TypeDefinition is the decoded form of one entry under `types`. A nil
// *TypeDefinition (a null document value) declares a plain simple type with
// no supertype and no structure.
//
// At most one of the variant fields is set. Type expressions inside the
// variants (TypeExpr) are either a type name string or a nested anonymous
// structure.
type TypeDefinition struct {
	// IsA names the supertype of a simple type.
	IsA string

	// List holds the element type of a list type.
	List TypeExpr

	// Tuple holds the element types of a tuple type, in order.
	Tuple []TypeExpr

	// MappingProps holds the property types of an enumerated mapping type.
	MappingProps map[string]TypeExpr

	// MappingKV holds the [key, value] types of a key/value mapping type.
	// Nil unless the mapping was declared in the two-element list form.
	MappingKV []TypeExpr

	// Union holds the member types of a union type.
	Union []TypeExpr
}

// TypeExpr is a type expression inside a type definition: either a type name
// (string) or an anonymous nested structure (*TypeDefinition).
type TypeExpr struct {
	// Name is set when the expression is a reference to a named type.
	Name string

	// Structure is set when the expression is an inline anonymous structure.
	Structure *TypeDefinition
}

// ReferencedTypes returns the names of every named type the definition
// depends on, recursing through nested anonymous structures. A nil
// definition depends on nothing.
func (t *TypeDefinition) ReferencedTypes() []string {
	seen := make(map[string]struct{})
	var names []string
	var walkDef func(def *TypeDefinition)
	var walkExpr func(expr TypeExpr)
	walkExpr = func(expr TypeExpr) {
		if expr.Name != "" {
			if _, ok := seen[expr.Name]; !ok {
				seen[expr.Name] = struct{}{}
				names = append(names, expr.Name)
			}
			return
		}
		walkDef(expr.Structure)
	}
	walkDef = func(def *TypeDefinition) {
		if def == nil {
			return
		}
		if def.IsA != "" {
			walkExpr(TypeExpr{Name: def.IsA})
		}
		if def.List != (TypeExpr{}) {
			walkExpr(def.List)
		}
		for _, e := range def.Tuple {
			walkExpr(e)
		}
		for _, k := range sortedKeys(def.MappingProps) {
			walkExpr(def.MappingProps[k])
		}
		for _, e := range def.MappingKV {
			walkExpr(e)
		}
		for _, e := range def.Union {
			walkExpr(e)
		}
	}
	walkDef(t)
	return names
}

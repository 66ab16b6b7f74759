package typesys

import (
	"fmt"
	"sort"
	"strings"
)

// Type is one node of the engine's type lattice. The concrete variants are
// *Simple, *List, *Tuple, *Mapping, *Union, and the Any singleton; the sum is
// closed by the unexported marker method.
type Type interface {
	// TypeName returns the declared name of the type, or "" for anonymous
	// structural types.
	TypeName() string
	String() string

	isType()
}

// anyType is the universal sink. Every type is compatible with it; it is
// compatible with nothing but itself.
type anyType struct{}

func (anyType) isType()          {}
func (anyType) TypeName() string { return "any" }
func (anyType) String() string   { return "any" }

// Any is the singleton instance of the universal type.
var Any Type = anyType{}

// Simple is a nominal type identified by name, optionally with a single
// supertype. Compatibility between simple types is by name identity or by
// walking the supertype chain.
type Simple struct {
	Name  string
	Super *Simple
}

func (*Simple) isType()            {}
func (s *Simple) TypeName() string { return s.Name }
func (s *Simple) String() string   { return s.Name }

// List is a homogeneous sequence type.
type List struct {
	Name string
	Elem Type
}

func (*List) isType()            {}
func (l *List) TypeName() string { return l.Name }

func (l *List) String() string {
	return named(l.Name, fmt.Sprintf("list<%s>", l.Elem))
}

// Tuple is a fixed-arity heterogeneous sequence type.
type Tuple struct {
	Name  string
	Elems []Type
}

func (*Tuple) isType()            {}
func (t *Tuple) TypeName() string { return t.Name }

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return named(t.Name, fmt.Sprintf("tuple<%s>", strings.Join(parts, ", ")))
}

// Prop is one named property of an enumerated mapping type.
type Prop struct {
	Name string
	Type Type
}

// Mapping is either an enumerated mapping (a fixed property set, Props) or a
// key/value mapping (Key and Value set, Props nil). The two forms are
// distinguished by Key being non-nil.
type Mapping struct {
	Name  string
	Props []Prop
	Key   Type
	Value Type
}

func (*Mapping) isType()            {}
func (m *Mapping) TypeName() string { return m.Name }

// IsKeyValue reports whether the mapping is the key/value form.
func (m *Mapping) IsKeyValue() bool { return m.Key != nil }

// Prop returns the enumerated property with the given name, or nil.
func (m *Mapping) Prop(name string) *Prop {
	for i := range m.Props {
		if m.Props[i].Name == name {
			return &m.Props[i]
		}
	}
	return nil
}

func (m *Mapping) String() string {
	if m.IsKeyValue() {
		return named(m.Name, fmt.Sprintf("mapping<%s, %s>", m.Key, m.Value))
	}
	parts := make([]string, len(m.Props))
	for i, p := range m.Props {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
	}
	return named(m.Name, fmt.Sprintf("mapping<%s>", strings.Join(parts, ", ")))
}

// Union is a set of alternative types. Unions always compare structurally;
// the name, when present, is cosmetic.
type Union struct {
	Name    string
	Members []Type
}

func (*Union) isType()            {}
func (u *Union) TypeName() string { return u.Name }

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	sort.Strings(parts)
	return named(u.Name, fmt.Sprintf("union<%s>", strings.Join(parts, " | ")))
}

func named(name, structural string) string {
	if name != "" {
		return name
	}
	return structural
}

// Equal reports structural equality of two types. Named simple and
// structured types are equal by name; unions are equal as member sets
// regardless of name.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch at := a.(type) {
	case anyType:
		_, ok := b.(anyType)
		return ok
	case *Simple:
		bt, ok := b.(*Simple)
		return ok && at.Name == bt.Name
	case *List:
		bt, ok := b.(*List)
		if !ok {
			return false
		}
		if at.Name != "" || bt.Name != "" {
			return at.Name == bt.Name
		}
		return Equal(at.Elem, bt.Elem)
	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok {
			return false
		}
		if at.Name != "" || bt.Name != "" {
			return at.Name == bt.Name
		}
		if len(at.Elems) != len(bt.Elems) {
			return false
		}
		for i := range at.Elems {
			if !Equal(at.Elems[i], bt.Elems[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bt, ok := b.(*Mapping)
		if !ok {
			return false
		}
		if at.Name != "" || bt.Name != "" {
			return at.Name == bt.Name
		}
		if at.IsKeyValue() != bt.IsKeyValue() {
			return false
		}
		if at.IsKeyValue() {
			return Equal(at.Key, bt.Key) && Equal(at.Value, bt.Value)
		}
		if len(at.Props) != len(bt.Props) {
			return false
		}
		for i := range at.Props {
			bp := bt.Prop(at.Props[i].Name)
			if bp == nil || !Equal(at.Props[i].Type, bp.Type) {
				return false
			}
		}
		return true
	case *Union:
		bt, ok := b.(*Union)
		if !ok {
			return false
		}
		if len(at.Members) != len(bt.Members) {
			return false
		}
		for _, am := range at.Members {
			found := false
			for _, bm := range bt.Members {
				if Equal(am, bm) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

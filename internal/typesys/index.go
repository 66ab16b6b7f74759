package typesys

import (
	"sort"

	"github.com/vk/taskgridgo/internal/model"
)

// Index resolves type names to Type values: the builtins plus every type
// declared by a description. Building the index also surfaces definition
// problems (unknown names, circular definitions, non-simple supertypes) as
// validation issues rather than errors, so a broken type section degrades to
// Any instead of aborting validation.
type Index struct {
	resolved map[string]Type
}

// resolution states for the definition walk.
const (
	stateResolving = iota + 1
	stateDone
)

type indexBuilder struct {
	defs   map[string]*model.TypeDefinition
	states map[string]int
	index  *Index
	issues []model.Issue
}

// BuildIndex resolves every declared type definition against the builtins
// and each other. Definitions may reference each other in any order; cycles
// are reported as issues and resolve to Any.
func BuildIndex(defs map[string]*model.TypeDefinition) (*Index, []model.Issue) {
	b := &indexBuilder{
		defs:   defs,
		states: make(map[string]int),
		index:  &Index{resolved: make(map[string]Type)},
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if IsBuiltin(name) {
			b.issues = append(b.issues, model.Warnf(model.IssueType,
				"type %q shadows a builtin type; the local definition is ignored", name))
			continue
		}
		b.resolveName(name)
	}
	return b.index, b.issues
}

// Lookup returns the type with the given name, builtin or declared.
func (x *Index) Lookup(name string) (Type, bool) {
	if t, ok := Builtin(name); ok {
		return t, true
	}
	t, ok := x.resolved[name]
	return t, ok
}

func (b *indexBuilder) resolveName(name string) Type {
	if t, ok := Builtin(name); ok {
		return t
	}
	if t, ok := b.index.resolved[name]; ok {
		return t
	}
	def, declared := b.defs[name]
	if !declared {
		b.issues = append(b.issues, model.Errorf(model.IssueType,
			"unknown type %q: not a builtin and not defined", name))
		return Any
	}
	if b.states[name] == stateResolving {
		b.issues = append(b.issues, model.Errorf(model.IssueType,
			"circular type definition involving %q", name))
		return Any
	}

	b.states[name] = stateResolving
	t := b.resolveDef(name, def)
	b.states[name] = stateDone
	b.index.resolved[name] = t
	return t
}

// resolveDef turns one definition into a Type. name is "" for anonymous
// nested structures.
func (b *indexBuilder) resolveDef(name string, def *model.TypeDefinition) Type {
	switch {
	case def == nil:
		return &Simple{Name: name}

	case def.IsA != "":
		super := b.resolveName(def.IsA)
		switch s := super.(type) {
		case *Simple:
			return &Simple{Name: name, Super: s}
		case anyType:
			return &Simple{Name: name}
		default:
			b.issues = append(b.issues, model.Errorf(model.IssueType,
				"type %q: supertype %q is not a simple type", name, def.IsA))
			return &Simple{Name: name}
		}

	case def.List != (model.TypeExpr{}):
		return &List{Name: name, Elem: b.resolveExpr(def.List)}

	case def.Tuple != nil:
		elems := make([]Type, len(def.Tuple))
		for i, e := range def.Tuple {
			elems[i] = b.resolveExpr(e)
		}
		return &Tuple{Name: name, Elems: elems}

	case def.MappingKV != nil:
		m := &Mapping{Name: name, Key: Any, Value: Any}
		if len(def.MappingKV) > 0 {
			m.Key = b.resolveExpr(def.MappingKV[0])
		}
		if len(def.MappingKV) > 1 {
			m.Value = b.resolveExpr(def.MappingKV[1])
		}
		return m

	case def.MappingProps != nil:
		keys := make([]string, 0, len(def.MappingProps))
		for k := range def.MappingProps {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		props := make([]Prop, len(keys))
		for i, k := range keys {
			props[i] = Prop{Name: k, Type: b.resolveExpr(def.MappingProps[k])}
		}
		return &Mapping{Name: name, Props: props}

	case def.Union != nil:
		members := make([]Type, len(def.Union))
		for i, e := range def.Union {
			members[i] = b.resolveExpr(e)
		}
		return &Union{Name: name, Members: members}
	}

	// A definition with no variant set is a plain simple type, same as null.
	return &Simple{Name: name}
}

func (b *indexBuilder) resolveExpr(expr model.TypeExpr) Type {
	if expr.Name != "" {
		return b.resolveName(expr.Name)
	}
	return b.resolveDef("", expr.Structure)
}

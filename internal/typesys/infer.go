package typesys

import (
	"reflect"
	"sort"

	"github.com/vk/taskgridgo/internal/refs"
)

// Scope supplies the declared types of references during inference. The
// validator implements it over the description's parameter and task output
// declarations; inference never consults runtime values.
type Scope interface {
	// TypeOfReference returns the declared type of the reference's referent.
	// ok is false when the referent cannot be determined; the reference
	// legality pass reports that separately, so inference degrades to Any.
	TypeOfReference(ref string) (t Type, ok bool)
}

// Infer determines the type of a literal argument value. With a non-nil
// scope, reference strings infer as the declared type of their referent;
// without one they are plain strings.
func Infer(value any, scope Scope) Type {
	switch v := value.(type) {
	case nil:
		return Null
	case bool:
		return Boolean
	case int:
		return Integer
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Integer
	case float32, float64:
		return Number
	case string:
		if scope != nil && refs.IsReference(v) {
			if t, ok := scope.TypeOfReference(v); ok {
				return t
			}
			return Any
		}
		return String
	case map[string]any:
		return inferStringKeyed(v, scope)
	case map[any]any:
		return inferMixedKeyed(v, scope)
	case []any:
		elems := make([]Type, len(v))
		for i, e := range v {
			elems[i] = Infer(e, scope)
		}
		return &Tuple{Elems: elems}
	}

	// Anything else iterable still infers as a tuple of its elements.
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		elems := make([]Type, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems[i] = Infer(rv.Index(i).Interface(), scope)
		}
		return &Tuple{Elems: elems}
	}
	return Any
}

// inferStringKeyed infers an enumerated mapping with one property per key.
// Properties are sorted by name so that inference is deterministic.
func inferStringKeyed(m map[string]any, scope Scope) Type {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make([]Prop, len(keys))
	for i, k := range keys {
		props[i] = Prop{Name: k, Type: Infer(m[k], scope)}
	}
	return &Mapping{Props: props}
}

// inferMixedKeyed handles mappings whose keys did not decode as strings.
// All-integer keys infer as a key/value mapping from integer to the merged
// value type. Mixed key kinds infer as Any; that loses information, but it
// is the established behavior for such documents.
func inferMixedKeyed(m map[any]any, scope Scope) Type {
	allString := true
	allInt := true
	for k := range m {
		switch k.(type) {
		case string:
			allInt = false
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			allString = false
		default:
			allString = false
			allInt = false
		}
	}

	switch {
	case allString:
		converted := make(map[string]any, len(m))
		for k, v := range m {
			converted[k.(string)] = v
		}
		return inferStringKeyed(converted, scope)
	case allInt:
		var valueTypes []Type
		for _, v := range m {
			valueTypes = append(valueTypes, Infer(v, scope))
		}
		return &Mapping{Key: Integer, Value: mergeTypes(valueTypes)}
	default:
		return Any
	}
}

// mergeTypes reduces a set of value types to a single representative: one
// distinct type stands alone, simple types collapse to a shared supertype
// when they have one, and everything else becomes a union of the distinct
// types.
func mergeTypes(types []Type) Type {
	if len(types) == 0 {
		return Any
	}

	var distinct []Type
	for _, t := range types {
		known := false
		for _, d := range distinct {
			if Equal(t, d) {
				known = true
				break
			}
		}
		if !known {
			distinct = append(distinct, t)
		}
	}
	if len(distinct) == 1 {
		return distinct[0]
	}

	base := distinct[0]
	for _, t := range distinct[1:] {
		base = CommonBase(base, t)
		if Equal(base, Any) {
			break
		}
	}
	if !Equal(base, Any) {
		return base
	}

	// Deterministic member order for stable error messages.
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].String() < distinct[j].String() })
	return &Union{Members: distinct}
}

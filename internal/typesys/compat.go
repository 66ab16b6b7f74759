package typesys

// Compatible reports whether a value of type src may be supplied where a
// value of type dst is expected.
//
// The relation in full:
//   - dst Any accepts everything; src Any fits nowhere else.
//   - A union source fits iff every member fits; a union destination fits
//     iff some member fits. An empty union is therefore a bottom type:
//     it fits everywhere, and nothing but an empty union fits into it.
//   - Simple types fit by name identity or by walking the supertype chain.
//   - A tuple fits a list iff every element type fits the list element type.
//   - Same-kind structured types with two differing names never fit; with
//     matching names they fit nominally; otherwise structurally.
func Compatible(src, dst Type) bool {
	if _, ok := dst.(anyType); ok {
		return true
	}
	if _, ok := src.(anyType); ok {
		return false
	}

	if u, ok := src.(*Union); ok {
		for _, member := range u.Members {
			if !Compatible(member, dst) {
				return false
			}
		}
		return true
	}
	if u, ok := dst.(*Union); ok {
		for _, member := range u.Members {
			if Compatible(src, member) {
				return true
			}
		}
		return false
	}

	switch s := src.(type) {
	case *Simple:
		d, ok := dst.(*Simple)
		if !ok {
			return false
		}
		for super := s; super != nil; super = super.Super {
			if super.Name == d.Name {
				return true
			}
		}
		return false

	case *Tuple:
		if d, ok := dst.(*List); ok {
			// Covariant tuple-to-list allowance.
			for _, elem := range s.Elems {
				if !Compatible(elem, d.Elem) {
					return false
				}
			}
			return true
		}
		d, ok := dst.(*Tuple)
		if !ok {
			return false
		}
		if nominal, decided := compareNames(s.Name, d.Name); decided {
			return nominal
		}
		if len(s.Elems) != len(d.Elems) {
			return false
		}
		for i := range s.Elems {
			if !Compatible(s.Elems[i], d.Elems[i]) {
				return false
			}
		}
		return true

	case *List:
		d, ok := dst.(*List)
		if !ok {
			return false
		}
		if nominal, decided := compareNames(s.Name, d.Name); decided {
			return nominal
		}
		return Compatible(s.Elem, d.Elem)

	case *Mapping:
		d, ok := dst.(*Mapping)
		if !ok {
			return false
		}
		if nominal, decided := compareNames(s.Name, d.Name); decided {
			return nominal
		}
		return mappingCompatible(s, d)
	}

	return false
}

// compareNames applies the nominal rule for same-kind structured types: when
// both sides are named the comparison is decided by the names alone.
func compareNames(src, dst string) (nominal, decided bool) {
	if src != "" && dst != "" {
		return src == dst, true
	}
	return false, false
}

// mappingCompatible implements the mapping-to-mapping rules.
//
//	enum -> enum: same property set, pairwise-compatible value types.
//	enum -> kv:   key type must accept string; every property type must fit
//	              the value type.
//	kv -> enum:   never; a kv mapping promises no particular property set.
//	kv -> kv:     key fits key, value fits value.
func mappingCompatible(src, dst *Mapping) bool {
	switch {
	case !src.IsKeyValue() && !dst.IsKeyValue():
		if len(src.Props) != len(dst.Props) {
			return false
		}
		for _, sp := range src.Props {
			dp := dst.Prop(sp.Name)
			if dp == nil || !Compatible(sp.Type, dp.Type) {
				return false
			}
		}
		return true

	case !src.IsKeyValue() && dst.IsKeyValue():
		if !Compatible(String, dst.Key) {
			return false
		}
		for _, sp := range src.Props {
			if !Compatible(sp.Type, dst.Value) {
				return false
			}
		}
		return true

	case src.IsKeyValue() && !dst.IsKeyValue():
		return false

	default:
		return Compatible(src.Key, dst.Key) && Compatible(src.Value, dst.Value)
	}
}

// CommonBase returns the nearest shared ancestor of two types. Equal types
// are their own base; simple types walk both supertype chains; everything
// else falls back to Any.
func CommonBase(a, b Type) Type {
	if Equal(a, b) {
		return a
	}
	as, aOK := a.(*Simple)
	bs, bOK := b.(*Simple)
	if !aOK || !bOK {
		return Any
	}
	ancestors := make(map[string]struct{})
	for super := as; super != nil; super = super.Super {
		ancestors[super.Name] = struct{}{}
	}
	for super := bs; super != nil; super = super.Super {
		if _, ok := ancestors[super.Name]; ok {
			return super
		}
	}
	return Any
}

package refs

import (
	"fmt"
	"strings"
)

// Marker is the prefix that makes a string a reference.
const Marker = "$"

// escapeMarker is a doubled marker, which escapes to a literal `$`.
const escapeMarker = Marker + Marker

// IsReference reports whether s is syntactically a reference: it starts
// with `$`, is not `$` alone, and is not escaped with `$$`.
func IsReference(s string) bool {
	if !strings.HasPrefix(s, Marker) || s == Marker {
		return false
	}
	return !strings.HasPrefix(s, escapeMarker)
}

// Unescape removes one level of escaping: a leading `$$` becomes `$`. Only
// the first two characters are affected; any other string is returned
// unchanged.
func Unescape(s string) string {
	if strings.HasPrefix(s, escapeMarker) {
		return s[1:]
	}
	return s
}

// Split breaks a reference into its target name and an optional output name.
// The marker is stripped and the remainder is split on the first `.`, so
// `$train.model` yields ("train", "model") and `$seed` yields ("seed", "").
func Split(ref string) (name, output string) {
	trimmed := strings.TrimPrefix(ref, Marker)
	if i := strings.Index(trimmed, "."); i >= 0 {
		return trimmed[:i], trimmed[i+1:]
	}
	return trimmed, ""
}

// StepOutputs is the run-scoped record of every output produced so far,
// keyed by step name and then output name.
type StepOutputs map[string]map[string]any

// Resolve evaluates a single reference against the resolved global
// parameters and the outputs produced so far.
//
// A dotted reference requires the named step to have produced the named
// output. A bare name prefers a global parameter; otherwise the named step
// must have produced exactly one output, which is returned.
func Resolve(ref string, params map[string]any, outputs StepOutputs) (any, error) {
	name, output := Split(ref)

	if output != "" {
		produced, ok := outputs[name]
		if !ok {
			return nil, fmt.Errorf("unresolvable reference %q: step %q has not produced outputs", ref, name)
		}
		value, ok := produced[output]
		if !ok {
			return nil, fmt.Errorf("unresolvable reference %q: step %q has no output %q", ref, name, output)
		}
		return value, nil
	}

	if value, ok := params[name]; ok {
		return value, nil
	}

	produced, ok := outputs[name]
	if !ok {
		return nil, fmt.Errorf("unresolvable reference %q", ref)
	}
	if len(produced) != 1 {
		return nil, fmt.Errorf(
			"unresolvable reference %q: step %q has %d outputs, an output name is required",
			ref, name, len(produced),
		)
	}
	for _, value := range produced {
		return value, nil
	}
	return nil, fmt.Errorf("unresolvable reference %q", ref)
}

// Substitute walks an arbitrary argument spec value and resolves every
// reference in it. Mappings recurse per value, lists per element, reference
// strings resolve, escaped strings unescape, and everything else passes
// through untouched. Mapping keys are never substituted.
func Substitute(spec any, params map[string]any, outputs StepOutputs) (any, error) {
	switch v := spec.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			resolved, err := Substitute(val, params, outputs)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			resolved, err := Substitute(val, params, outputs)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case string:
		if IsReference(v) {
			return Resolve(v, params, outputs)
		}
		return Unescape(v), nil
	default:
		return spec, nil
	}
}

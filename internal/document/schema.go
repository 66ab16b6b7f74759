package document

import (
	"fmt"
	"sort"

	"github.com/vk/taskgridgo/internal/model"
)

// The top-level keys the grammar knows about.
var topLevelKeys = map[string]struct{}{
	"parameters": {},
	"tasks":      {},
	"graph":      {},
	"types":      {},
}

// structure keywords allowed in a type definition, exactly one per mapping.
var typeKeywords = map[string]struct{}{
	"is_a":    {},
	"list":    {},
	"tuple":   {},
	"mapping": {},
	"union":   {},
}

// ValidateSchema checks a raw document against the structural grammar and
// returns every violation found. An empty result means the document is safe
// to decode; any error-severity issue means deeper passes would not be
// structurally sound and must not run.
func ValidateSchema(raw map[string]any) []model.Issue {
	var issues []model.Issue
	report := func(format string, args ...any) {
		issues = append(issues, model.Errorf(model.IssueSchema, format, args...))
	}

	for _, key := range sortedRawKeys(raw) {
		if _, ok := topLevelKeys[key]; !ok {
			issues = append(issues, model.Warnf(model.IssueSchema, "unknown top-level key %q ignored", key))
		}
	}

	graph, ok := raw["graph"]
	if !ok {
		report("missing required top-level key \"graph\"")
	} else {
		checkGraphSchema(graph, report)
	}
	if tasks, ok := raw["tasks"]; ok {
		checkTasksSchema(tasks, report)
	}
	if types, ok := raw["types"]; ok {
		checkTypesSchema(types, report)
	}
	if params, ok := raw["parameters"]; ok {
		checkParametersSchema(params, report)
	}
	return issues
}

type reportFunc func(format string, args ...any)

func checkGraphSchema(graph any, report reportFunc) {
	steps, ok := asMapping(graph)
	if !ok {
		report("\"graph\" must be a mapping of step name to step definition, got %T", graph)
		return
	}
	if len(steps) == 0 {
		report("\"graph\" must define at least one step")
		return
	}
	for _, name := range sortedRawKeys(steps) {
		step, ok := asMapping(steps[name])
		if !ok {
			report("step %q must be a mapping, got %T", name, steps[name])
			continue
		}
		if task, ok := step["task"]; ok {
			if _, isString := task.(string); !isString {
				report("step %q: \"task\" must be a string, got %T", name, task)
			}
			if kwargs, ok := step["kwargs"]; ok {
				if _, isMapping := asMapping(kwargs); !isMapping {
					report("step %q: \"kwargs\" must be a mapping, got %T", name, kwargs)
				}
			}
		}
		if deps, ok := step["dependencies"]; ok {
			checkDependenciesSchema(name, deps, report)
		}
	}
}

func checkDependenciesSchema(stepName string, deps any, report reportFunc) {
	switch d := deps.(type) {
	case string:
	case []any:
		for i, elem := range d {
			if _, ok := elem.(string); !ok {
				report("step %q: dependency %d must be a string, got %T", stepName, i, elem)
			}
		}
	default:
		report("step %q: \"dependencies\" must be a string or a list of strings, got %T", stepName, deps)
	}
}

func checkTasksSchema(tasks any, report reportFunc) {
	defs, ok := asMapping(tasks)
	if !ok {
		report("\"tasks\" must be a mapping of task name to task definition, got %T", tasks)
		return
	}
	for _, name := range sortedRawKeys(defs) {
		checkTaskSchema(fmt.Sprintf("task %q", name), defs[name], report)
	}
}

// checkTaskSchema validates one task definition. It is also used by the
// registry package to vet definitions fetched from external sources.
func checkTaskSchema(label string, def any, report reportFunc) {
	task, ok := asMapping(def)
	if !ok {
		report("%s must be a mapping, got %T", label, def)
		return
	}

	plugin, ok := task["plugin"]
	if !ok {
		report("%s is missing required key \"plugin\"", label)
	} else if _, isString := plugin.(string); !isString {
		report("%s: \"plugin\" must be a string, got %T", label, plugin)
	}

	if inputs, ok := task["inputs"]; ok {
		list, ok := inputs.([]any)
		if !ok {
			report("%s: \"inputs\" must be a list, got %T", label, inputs)
		} else {
			for i, elem := range list {
				checkTaskInputSchema(label, i, elem, report)
			}
		}
	}

	if outputs, ok := task["outputs"]; ok {
		checkTaskOutputsSchema(label, outputs, report)
	}
}

func checkTaskInputSchema(label string, i int, elem any, report reportFunc) {
	input, ok := asMapping(elem)
	if !ok {
		report("%s: input %d must be a mapping, got %T", label, i, elem)
		return
	}
	if _, full := input["name"]; full {
		if _, ok := input["name"].(string); !ok {
			report("%s: input %d: \"name\" must be a string", label, i)
		}
		if typ, ok := input["type"]; ok {
			if _, isString := typ.(string); !isString {
				report("%s: input %d: \"type\" must be a string", label, i)
			}
		}
		if req, ok := input["required"]; ok {
			if _, isBool := req.(bool); !isBool {
				report("%s: input %d: \"required\" must be a boolean", label, i)
			}
		}
		return
	}
	// Shorthand form: a single name-to-type pair.
	if len(input) != 1 {
		report("%s: input %d must be either {name, type, required} or a single name-to-type pair", label, i)
		return
	}
	for _, v := range input {
		if _, ok := v.(string); !ok {
			report("%s: input %d: type name must be a string, got %T", label, i, v)
		}
	}
}

func checkTaskOutputsSchema(label string, outputs any, report reportFunc) {
	switch out := outputs.(type) {
	case map[string]any:
		if len(out) != 1 {
			report("%s: a mapping-form \"outputs\" must hold exactly one name-to-type pair; use a list to declare several", label)
			return
		}
		for _, v := range out {
			if _, ok := v.(string); !ok {
				report("%s: output type name must be a string, got %T", label, v)
			}
		}
	case []any:
		for i, elem := range out {
			pair, ok := asMapping(elem)
			if !ok || len(pair) != 1 {
				report("%s: output %d must be a single name-to-type pair", label, i)
				continue
			}
			for _, v := range pair {
				if _, ok := v.(string); !ok {
					report("%s: output %d: type name must be a string, got %T", label, i, v)
				}
			}
		}
	default:
		report("%s: \"outputs\" must be a name-to-type pair or a list of them, got %T", label, outputs)
	}
}

func checkTypesSchema(types any, report reportFunc) {
	defs, ok := asMapping(types)
	if !ok {
		report("\"types\" must be a mapping of type name to type definition, got %T", types)
		return
	}
	for _, name := range sortedRawKeys(defs) {
		checkTypeSchema(fmt.Sprintf("type %q", name), defs[name], report)
	}
}

// checkTypeSchema validates one type definition or nested type expression
// structure.
func checkTypeSchema(label string, def any, report reportFunc) {
	switch d := def.(type) {
	case nil:
		// A null definition is a plain simple type.
	case string:
		// A bare string is shorthand for {is_a: name}.
	case map[string]any:
		var keywords []string
		for key := range d {
			if _, ok := typeKeywords[key]; !ok {
				report("%s: unknown structure keyword %q", label, key)
				return
			}
			keywords = append(keywords, key)
		}
		if len(keywords) != 1 {
			report("%s must use exactly one of is_a, list, tuple, mapping, or union", label)
			return
		}
		checkTypeKeywordSchema(label, keywords[0], d[keywords[0]], report)
	default:
		report("%s must be null, a type name, or a structure mapping, got %T", label, def)
	}
}

func checkTypeKeywordSchema(label, keyword string, value any, report reportFunc) {
	checkExpr := func(what string, expr any) {
		switch expr.(type) {
		case string, map[string]any:
			checkTypeExprSchema(label+": "+what, expr, report)
		default:
			report("%s: %s must be a type name or a structure mapping, got %T", label, what, expr)
		}
	}

	switch keyword {
	case "is_a":
		if _, ok := value.(string); !ok {
			report("%s: \"is_a\" must be a type name string, got %T", label, value)
		}
	case "list":
		checkExpr("list element type", value)
	case "tuple":
		elems, ok := value.([]any)
		if !ok {
			report("%s: \"tuple\" must be a list of type expressions, got %T", label, value)
			return
		}
		for i, e := range elems {
			checkExpr(fmt.Sprintf("tuple element %d", i), e)
		}
	case "union":
		members, ok := value.([]any)
		if !ok {
			report("%s: \"union\" must be a list of type expressions, got %T", label, value)
			return
		}
		for i, m := range members {
			checkExpr(fmt.Sprintf("union member %d", i), m)
		}
	case "mapping":
		switch m := value.(type) {
		case map[string]any:
			for _, prop := range sortedRawKeys(m) {
				checkExpr(fmt.Sprintf("property %q", prop), m[prop])
			}
		case []any:
			if len(m) != 2 {
				report("%s: a key/value \"mapping\" must be a two-element [key, value] list, got %d elements", label, len(m))
				return
			}
			checkExpr("mapping key type", m[0])
			checkExpr("mapping value type", m[1])
		default:
			report("%s: \"mapping\" must be a property mapping or a [key, value] list, got %T", label, value)
		}
	}
}

// checkTypeExprSchema validates a nested type expression: a name string or
// an anonymous structure mapping.
func checkTypeExprSchema(label string, expr any, report reportFunc) {
	if _, ok := expr.(string); ok {
		return
	}
	checkTypeSchema(label, expr, report)
}

func checkParametersSchema(params any, report reportFunc) {
	switch p := params.(type) {
	case []any:
		for i, elem := range p {
			if _, ok := elem.(string); !ok {
				report("list-form \"parameters\" entry %d must be a name string, got %T", i, elem)
			}
		}
	case map[string]any:
		for _, name := range sortedRawKeys(p) {
			if obj, ok := asMapping(p[name]); ok && isParameterObject(obj) {
				if typ, ok := obj["type"]; ok {
					if _, isString := typ.(string); !isString {
						report("parameter %q: \"type\" must be a string, got %T", name, typ)
					}
				}
			}
		}
	default:
		report("\"parameters\" must be a list of names or a mapping of name to definition, got %T", params)
	}
}

// isParameterObject reports whether a mapping-form parameter value is the
// object form ({type, default}) rather than a bare mapping default.
func isParameterObject(obj map[string]any) bool {
	if len(obj) == 0 {
		return false
	}
	for key := range obj {
		if key != "type" && key != "default" {
			return false
		}
	}
	return true
}

// asMapping normalizes a raw mapping value. Documents with non-string keys
// decode as map[any]any; those keys are surfaced by the validator's
// string-key pass, so here they simply fail the mapping shape.
func asMapping(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func sortedRawKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package validate

import (
	"sort"

	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/refs"
	"github.com/vk/taskgridgo/internal/typesys"
)

// checkTypes is the static type-checking phase: it resolves every declared
// type name, cross-checks global parameter defaults against their declared
// types, and checks each step's inferred argument types against the invoked
// task's declared input types. Reference arguments are typed by declaration
// (the referent's parameter or output type), never by runtime value.
func (c *checker) checkTypes() {
	index, issues := typesys.BuildIndex(c.desc.Types)
	c.issues = append(c.issues, issues...)

	tc := &typeChecker{checker: c, index: index}
	tc.checkTaskTypeNames()
	tc.checkParameterDefaults()
	for _, name := range c.desc.StepNames() {
		tc.checkStep(name, c.desc.Graph[name])
	}
}

type typeChecker struct {
	*checker
	index *typesys.Index
}

// lookup resolves a declared type name, degrading to Any. An empty name is
// an omitted declaration and resolves to Any silently; an unknown one was
// already reported by checkTaskTypeNames or BuildIndex.
func (tc *typeChecker) lookup(name string) typesys.Type {
	if name == "" {
		return typesys.Any
	}
	if t, ok := tc.index.Lookup(name); ok {
		return t
	}
	return typesys.Any
}

// checkTaskTypeNames verifies that every type name used by a task definition
// is builtin or declared.
func (tc *typeChecker) checkTaskTypeNames() {
	names := make([]string, 0, len(tc.desc.Tasks))
	for name := range tc.desc.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		task := tc.desc.Tasks[name]
		for _, input := range task.Inputs {
			if input.Type == "" {
				continue
			}
			if _, ok := tc.index.Lookup(input.Type); !ok {
				tc.reportf(model.IssueType, "task %q: input %q names unknown type %q", name, input.Name, input.Type)
			}
		}
		for _, output := range task.Outputs {
			if output.Type == "" {
				continue
			}
			if _, ok := tc.index.Lookup(output.Type); !ok {
				tc.reportf(model.IssueType, "task %q: output %q names unknown type %q", name, output.Name, output.Type)
			}
		}
	}
}

// checkParameterDefaults cross-checks every mapping-form parameter's literal
// default against its declared type.
func (tc *typeChecker) checkParameterDefaults() {
	if tc.desc.Parameters == nil || tc.desc.Parameters.IsList() {
		return
	}
	for _, name := range tc.desc.Parameters.Names() {
		def := tc.desc.Parameters.Mapping[name]
		if def.Type == "" {
			continue
		}
		declared, ok := tc.index.Lookup(def.Type)
		if !ok {
			tc.reportf(model.IssueType, "parameter %q: unknown type %q", name, def.Type)
			continue
		}
		if !def.HasDefault {
			continue
		}
		inferred := typesys.Infer(def.Default, nil)
		if !typesys.Compatible(inferred, declared) {
			tc.reportf(model.IssueType,
				"parameter %q: default value of type %s is not compatible with declared type %s",
				name, inferred, declared)
		}
	}
}

// checkStep type-checks one step's argument spec against its task contract.
func (tc *typeChecker) checkStep(name string, step *model.StepDefinition) {
	task := tc.desc.Tasks[step.Task]
	if task == nil {
		return
	}
	scope := &declaredScope{tc: tc}

	supplied := make(map[string]bool, len(step.Args)+len(step.Kwargs))

	for i, arg := range step.Args {
		if i >= len(task.Inputs) {
			tc.reportf(model.IssueType,
				"step %q: too many positional arguments: task %q accepts %d, got %d",
				name, step.Task, len(task.Inputs), len(step.Args))
			break
		}
		input := task.Inputs[i]
		supplied[input.Name] = true
		tc.checkArgument(name, input, arg, scope)
	}

	kwargNames := make([]string, 0, len(step.Kwargs))
	for k := range step.Kwargs {
		kwargNames = append(kwargNames, k)
	}
	sort.Strings(kwargNames)
	for _, k := range kwargNames {
		input := task.Input(k)
		if input == nil {
			tc.reportf(model.IssueType,
				"step %q: unknown keyword argument %q for task %q", name, k, step.Task)
			continue
		}
		supplied[k] = true
		tc.checkArgument(name, *input, step.Kwargs[k], scope)
	}

	for _, input := range task.Inputs {
		if input.Required && !supplied[input.Name] {
			tc.reportf(model.IssueType,
				"step %q: missing required argument %q of task %q", name, input.Name, step.Task)
		}
	}
}

func (tc *typeChecker) checkArgument(stepName string, input model.TaskInput, arg any, scope typesys.Scope) {
	expected := tc.lookup(input.Type)
	actual := typesys.Infer(arg, scope)
	if !typesys.Compatible(actual, expected) {
		tc.reportf(model.IssueType,
			"step %q argument %q: %s is not compatible with %s", stepName, input.Name, actual, expected)
	}
}

// declaredScope resolves a reference to the declared type of its referent:
// a parameter's declared (or default-inferred) type, or a task output's
// declared type. Unresolvable references degrade to Any here; the reference
// legality pass has already reported them.
type declaredScope struct {
	tc *typeChecker
}

func (s *declaredScope) TypeOfReference(ref string) (typesys.Type, bool) {
	target, output := refs.Split(ref)

	if output == "" && s.tc.desc.Parameters.Has(target) {
		if s.tc.desc.Parameters.IsList() {
			return typesys.Any, true
		}
		def := s.tc.desc.Parameters.Mapping[target]
		if def.Type != "" {
			return s.tc.lookup(def.Type), true
		}
		if def.HasDefault {
			return typesys.Infer(def.Default, nil), true
		}
		return typesys.Any, true
	}

	step, ok := s.tc.desc.Graph[target]
	if !ok {
		return nil, false
	}
	task := s.tc.desc.Tasks[step.Task]
	if task == nil {
		return nil, false
	}

	if output == "" {
		if len(task.Outputs) != 1 {
			return nil, false
		}
		return s.tc.lookup(task.Outputs[0].Type), true
	}
	out := task.Output(output)
	if out == nil {
		return nil, false
	}
	return s.tc.lookup(out.Type), true
}

package validate

import (
	"sort"
	"strings"

	"github.com/vk/taskgridgo/internal/dag"
	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/refs"
)

// Check runs every semantic pass and, when they all hold, the static type
// check. The returned issues are in pass order; an empty result means the
// description is ready to execute.
func Check(desc *model.Description) []model.Issue {
	c := &checker{desc: desc}

	paramsOK := c.checkParameterNames()
	shapesOK := c.checkStepShapes()
	tasksOK := shapesOK && c.checkTasksDeclared()
	collisionsOK := paramsOK && c.checkNameCollisions()
	refsOK := tasksOK && collisionsOK && c.checkReferences()
	cyclesOK := refsOK && c.checkCycles()
	coordsOK := tasksOK && c.checkPluginCoordinates()

	if cyclesOK && coordsOK {
		c.checkTypes()
	}
	return c.issues
}

type checker struct {
	desc   *model.Description
	issues []model.Issue
}

// reportf records an error-severity issue and marks the current pass failed.
func (c *checker) reportf(kind model.IssueKind, format string, args ...any) {
	c.issues = append(c.issues, model.Errorf(kind, format, args...))
}

// run tracks whether a pass added any error-severity issue.
func (c *checker) run(pass func()) bool {
	before := len(c.issues)
	pass()
	for _, issue := range c.issues[before:] {
		if issue.Severity == model.SeverityError {
			return false
		}
	}
	return true
}

func (c *checker) isParameter(name string) bool {
	return c.desc.Parameters.Has(name)
}

// checkParameterNames rejects parameter names containing ".", which would be
// indistinguishable from step-output references.
func (c *checker) checkParameterNames() bool {
	return c.run(func() {
		for _, name := range c.desc.Parameters.Names() {
			if strings.Contains(name, ".") {
				c.reportf(model.IssueSemantic, "parameter name %q must not contain \".\"", name)
			}
		}
	})
}

// checkStepShapes rejects short-form steps that do not have exactly one
// property besides dependencies, and warns on short-form mapping arguments
// carrying a "task" key, which read like an accidentally nested long form.
func (c *checker) checkStepShapes() bool {
	return c.run(func() {
		for _, name := range c.desc.StepNames() {
			step := c.desc.Graph[name]
			if step.BadShape {
				props := append([]string(nil), step.ShapeProperties...)
				sort.Strings(props)
				c.reportf(model.IssueSemantic,
					"step %q must have exactly one property besides \"dependencies\", found %d (%s)",
					name, len(props), strings.Join(props, ", "))
				continue
			}
			if step.Form != model.ShortForm || len(step.Args) != 1 {
				continue
			}
			if arg, ok := step.Args[0].(map[string]any); ok {
				if _, hasTask := arg["task"]; hasTask {
					c.issues = append(c.issues, model.Warnf(model.IssueSemantic,
						"step %q: mapping argument with a \"task\" key is passed as one positional literal; use the long form if a nested step was intended",
						name))
				}
			}
		}
	})
}

// checkTasksDeclared requires every step's task short name to be defined.
func (c *checker) checkTasksDeclared() bool {
	return c.run(func() {
		for _, name := range c.desc.StepNames() {
			step := c.desc.Graph[name]
			if _, ok := c.desc.Tasks[step.Task]; !ok {
				c.reportf(model.IssueSemantic, "step %q invokes undefined task %q", name, step.Task)
			}
		}
	})
}

// checkNameCollisions rejects steps that share a name with a global
// parameter; a bare reference to such a name would be ambiguous.
func (c *checker) checkNameCollisions() bool {
	return c.run(func() {
		for _, name := range c.desc.StepNames() {
			if c.isParameter(name) {
				c.reportf(model.IssueSemantic, "step %q collides with a parameter of the same name", name)
			}
		}
	})
}

// checkReferences requires every reference in every argument spec to name a
// declared parameter or a declared step output, and every explicit
// dependency to name a declared step.
func (c *checker) checkReferences() bool {
	return c.run(func() {
		for _, name := range c.desc.StepNames() {
			step := c.desc.Graph[name]
			for _, value := range step.ArgumentValues() {
				for _, ref := range refs.Collect(value) {
					c.checkReference(name, ref)
				}
			}
			for _, dep := range step.Dependencies {
				if _, ok := c.desc.Graph[dep]; !ok {
					c.reportf(model.IssueSemantic, "step %q depends on undefined step %q", name, dep)
				}
			}
		}
	})
}

func (c *checker) checkReference(stepName, ref string) {
	target, output := refs.Split(ref)

	if output == "" {
		if c.isParameter(target) {
			return
		}
		referenced, ok := c.desc.Graph[target]
		if !ok {
			c.reportf(model.IssueSemantic,
				"step %q: reference %q does not resolve to a parameter or step", stepName, ref)
			return
		}
		task := c.desc.Tasks[referenced.Task]
		if task != nil && len(task.Outputs) != 1 {
			c.reportf(model.IssueSemantic,
				"step %q: reference %q is ambiguous: step %q has %d outputs, name one explicitly",
				stepName, ref, target, len(task.Outputs))
		}
		return
	}

	referenced, ok := c.desc.Graph[target]
	if !ok {
		c.reportf(model.IssueSemantic,
			"step %q: reference %q names undefined step %q", stepName, ref, target)
		return
	}
	task := c.desc.Tasks[referenced.Task]
	if task != nil && task.Output(output) == nil {
		c.reportf(model.IssueSemantic,
			"step %q: reference %q names unknown output %q of step %q", stepName, ref, output, target)
	}
}

// checkCycles runs the full-graph topological sort purely for its cycle and
// missing-step detection.
func (c *checker) checkCycles() bool {
	return c.run(func() {
		if _, err := dag.Sort(c.desc.Graph, c.isParameter); err != nil {
			c.reportf(model.IssueSemantic, "%s", err.Error())
		}
	})
}

// checkPluginCoordinates requires every task's plugin coordinate to contain
// at least one `.` separating two non-empty components.
func (c *checker) checkPluginCoordinates() bool {
	return c.run(func() {
		names := make([]string, 0, len(c.desc.Tasks))
		for name := range c.desc.Tasks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !coordinateWellFormed(c.desc.Tasks[name].Plugin) {
				c.reportf(model.IssueSemantic,
					"task %q: plugin coordinate %q is not a dotted path", name, c.desc.Tasks[name].Plugin)
			}
		}
	})
}

func coordinateWellFormed(plugin string) bool {
	parts := strings.Split(plugin, ".")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] != "" && parts[i+1] != "" {
			return true
		}
	}
	return false
}

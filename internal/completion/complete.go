package completion

import (
	"context"
	"sort"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/registry"
	"github.com/vk/taskgridgo/internal/typesys"
)

// Complete applies the completion policy to a schema-valid description,
// mutating it in place. Task completion runs first — the final task
// definitions determine which types are reachable — followed by the type
// closure. Lookup problems accumulate as entity issues; they become errors
// only when the description is left without a usable definition.
func Complete(ctx context.Context, desc *model.Description, reg registry.Registry, policy Policy) []model.Issue {
	if policy == PolicyNone {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Completing description.", "policy", policy.String())

	if policy == PolicyStrict {
		desc.Tasks = nil
		desc.Types = nil
	}

	c := &completer{ctx: ctx, desc: desc, reg: reg, policy: policy}
	c.completeTasks()
	c.completeTypes()

	if len(desc.Tasks) == 0 {
		desc.Tasks = nil
	}
	if len(desc.Types) == 0 {
		desc.Types = nil
	}
	return c.issues
}

type completer struct {
	ctx    context.Context
	desc   *model.Description
	reg    registry.Registry
	policy Policy
	issues []model.Issue
}

// referencedTasks returns the distinct task short names the graph invokes,
// sorted. Malformed steps have no usable task name and are skipped; the
// validator reports them.
func (c *completer) referencedTasks() []string {
	seen := make(map[string]struct{})
	for _, step := range c.desc.Graph {
		if step.BadShape || step.Task == "" {
			continue
		}
		seen[step.Task] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *completer) completeTasks() {
	referenced := c.referencedTasks()
	logger := ctxlog.FromContext(c.ctx)

	for _, name := range referenced {
		_, hasLocal := c.desc.Tasks[name]
		if c.policy == PolicyEnrich && hasLocal {
			continue
		}

		// With a usable local definition in hand the registry is the
		// preferred source, not the only one; without one, allow the
		// registry to consult its fallback source too.
		def, found, err := c.reg.TaskDefinition(c.ctx, name, !hasLocal)
		if err != nil {
			logger.Warn("Registry task lookup failed.", "task", name, "error", err)
		}
		if err != nil || !found {
			if !hasLocal {
				c.issues = append(c.issues, model.Errorf(model.IssueEntity,
					"task %q is not defined locally and was not found in the registry", name))
			}
			continue
		}
		if c.desc.Tasks == nil {
			c.desc.Tasks = make(map[string]*model.TaskDefinition)
		}
		c.desc.Tasks[name] = def
	}

	// Prune definitions the graph never invokes. Not an error: a partial
	// description may carry leftovers from editing.
	inUse := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		inUse[name] = struct{}{}
	}
	for name := range c.desc.Tasks {
		if _, ok := inUse[name]; !ok {
			logger.Debug("Pruning unreferenced task definition.", "task", name)
			delete(c.desc.Tasks, name)
		}
	}
}

// completeTypes resolves the type dependency closure seeded from every type
// name the final task definitions and the global parameters mention. A
// shared visited set makes cycles among type definitions terminate here;
// validation flags them afterwards.
func (c *completer) completeTypes() {
	logger := ctxlog.FromContext(c.ctx)

	var queue []string
	visited := make(map[string]struct{})
	enqueue := func(name string) {
		if name == "" || typesys.IsBuiltin(name) {
			return
		}
		if _, ok := visited[name]; ok {
			return
		}
		visited[name] = struct{}{}
		queue = append(queue, name)
	}

	for _, taskName := range c.referencedTasks() {
		task, ok := c.desc.Tasks[taskName]
		if !ok {
			continue
		}
		for _, typeName := range task.TypeNames() {
			enqueue(typeName)
		}
	}
	if params := c.desc.Parameters; params != nil && !params.IsList() {
		for _, name := range params.Names() {
			enqueue(params.Mapping[name].Type)
		}
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		hasLocal := c.desc.HasType(name)
		if c.policy != PolicyEnrich || !hasLocal {
			def, found, err := c.reg.TypeDefinition(c.ctx, name)
			if err != nil {
				logger.Warn("Registry type lookup failed.", "type", name, "error", err)
			}
			switch {
			case err == nil && found:
				c.desc.SetType(name, def)
			case !hasLocal:
				c.issues = append(c.issues, model.Errorf(model.IssueEntity,
					"type %q is not defined locally and was not found in the registry", name))
			}
		}

		for _, dep := range c.desc.Types[name].ReferencedTypes() {
			enqueue(dep)
		}
	}

	for name := range c.desc.Types {
		if _, ok := visited[name]; !ok {
			logger.Debug("Pruning unreferenced type definition.", "type", name)
			delete(c.desc.Types, name)
		}
	}
}

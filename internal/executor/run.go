package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/dag"
	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/plugin"
	"github.com/vk/taskgridgo/internal/refs"
)

// Executor runs descriptions through a plugin dispatcher.
type Executor struct {
	dispatcher plugin.Dispatcher
}

// New returns an Executor dispatching through d.
func New(d plugin.Dispatcher) *Executor {
	return &Executor{dispatcher: d}
}

// Run executes every step of the description in topological order. The
// returned outputs are the run's full step-output record; callers normally
// discard them. Any failure — unresolved parameter, cycle, unresolvable
// reference, task error — aborts the run immediately.
func (e *Executor) Run(ctx context.Context, desc *model.Description, supplied map[string]any) (refs.StepOutputs, error) {
	logger := ctxlog.FromContext(ctx)

	params, err := ResolveParameters(ctx, desc.Parameters, supplied)
	if err != nil {
		return nil, err
	}

	order, err := dag.Sort(desc.Graph, desc.Parameters.Has)
	if err != nil {
		return nil, fmt.Errorf("failed to order step graph: %w", err)
	}
	logger.Debug("Step order resolved.", "order", order)

	outputs := make(refs.StepOutputs, len(order))
	for _, name := range order {
		if err := e.runStep(ctx, desc, name, params, outputs); err != nil {
			return nil, err
		}
	}
	logger.Info("✅ Run finished.", "steps", len(order))
	return outputs, nil
}

func (e *Executor) runStep(ctx context.Context, desc *model.Description, name string, params map[string]any, outputs refs.StepOutputs) error {
	logger := ctxlog.FromContext(ctx).With("step", name)
	step := desc.Graph[name]

	task, ok := desc.Tasks[step.Task]
	if !ok {
		return fmt.Errorf("step %q invokes undefined task %q", name, step.Task)
	}
	coord, err := plugin.ParseCoordinate(task.Plugin)
	if err != nil {
		return fmt.Errorf("step %q: %w", name, err)
	}

	args, kwargs, err := e.resolveArguments(step, params, outputs)
	if err != nil {
		return fmt.Errorf("step %q: %w", name, err)
	}

	logger.Info("▶️ Starting step.", "task", step.Task, "plugin", task.Plugin)
	result, err := e.dispatcher.Dispatch(ctx, coord, args, kwargs)
	if err != nil {
		return fmt.Errorf("step %q failed: %w", name, err)
	}

	bound, err := bindOutputs(ctx, name, task, result)
	if err != nil {
		return err
	}
	outputs[name] = bound
	logger.Info("✅ Finished step.", "outputs", len(bound))
	return nil
}

func (e *Executor) resolveArguments(step *model.StepDefinition, params map[string]any, outputs refs.StepOutputs) ([]any, map[string]any, error) {
	var args []any
	if step.Args != nil {
		resolved, err := refs.Substitute(step.Args, params, outputs)
		if err != nil {
			return nil, nil, err
		}
		args = resolved.([]any)
	}
	var kwargs map[string]any
	if step.Kwargs != nil {
		resolved, err := refs.Substitute(step.Kwargs, params, outputs)
		if err != nil {
			return nil, nil, err
		}
		kwargs = resolved.(map[string]any)
	}
	return args, kwargs, nil
}

// bindOutputs maps a task's return value onto the step's declared outputs.
// A single named output binds the whole value. A declared output list
// destructures an iterable return value positionally; a determinable length
// mismatch is logged and zipped short, a documented leniency.
func bindOutputs(ctx context.Context, stepName string, task *model.TaskDefinition, result any) (map[string]any, error) {
	bound := make(map[string]any, len(task.Outputs))
	if len(task.Outputs) == 0 {
		return bound, nil
	}

	if !task.DestructureOutputs {
		bound[task.Outputs[0].Name] = result
		return bound, nil
	}

	rv := reflect.ValueOf(result)
	if result == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf(
			"step %q declares %d outputs but its task returned a non-iterable %T",
			stepName, len(task.Outputs), result)
	}

	if rv.Len() != len(task.Outputs) {
		ctxlog.FromContext(ctx).Warn("Step output arity mismatch; binding the shorter of the two.",
			"step", stepName, "declared", len(task.Outputs), "returned", rv.Len())
	}
	for i, output := range task.Outputs {
		if i >= rv.Len() {
			break
		}
		bound[output.Name] = rv.Index(i).Interface()
	}
	return bound, nil
}

package plugin

import (
	"context"
	"fmt"

	"github.com/vk/taskgridgo/internal/ctxlog"
)

// RegisterBuiltins installs the small set of in-process tasks the CLI ships
// with, enough to run simple descriptions end to end without external
// plugins.
func RegisterBuiltins(d *GoDispatcher) {
	d.Register("builtins.core.echo", echoTask)
	d.Register("builtins.math.add", addTask)
	d.Register("builtins.math.range", rangeTask)
}

// echoTask logs its arguments and returns the first positional argument, or
// the kwargs mapping when there are no positional arguments.
func echoTask(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("echo", "args", args, "kwargs", kwargs)
	if len(args) > 0 {
		return args[0], nil
	}
	return kwargs, nil
}

// addTask sums its numeric arguments. Integers stay integral; any float
// promotes the result.
func addTask(_ context.Context, args []any, kwargs map[string]any) (any, error) {
	values := append([]any{}, args...)
	for _, v := range kwargs {
		values = append(values, v)
	}

	intSum := int64(0)
	floatSum := 0.0
	sawFloat := false
	for _, v := range values {
		switch n := v.(type) {
		case int:
			intSum += int64(n)
		case int64:
			intSum += n
		case float64:
			floatSum += n
			sawFloat = true
		default:
			return nil, fmt.Errorf("add: argument %v (%T) is not a number", v, v)
		}
	}
	if sawFloat {
		return floatSum + float64(intSum), nil
	}
	return intSum, nil
}

// rangeTask returns the integers [0, n) given a single count argument.
func rangeTask(_ context.Context, args []any, kwargs map[string]any) (any, error) {
	var raw any
	switch {
	case len(args) == 1:
		raw = args[0]
	case len(kwargs) == 1:
		for _, v := range kwargs {
			raw = v
		}
	default:
		return nil, fmt.Errorf("range: expected exactly one argument")
	}

	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	default:
		return nil, fmt.Errorf("range: count %v (%T) is not an integer", raw, raw)
	}
	if n < 0 {
		return nil, fmt.Errorf("range: count must not be negative, got %d", n)
	}

	out := make([]any, n)
	for i := int64(0); i < n; i++ {
		out[i] = i
	}
	return out, nil
}

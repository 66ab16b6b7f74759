package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/model"
)

// ErrMissingParameters reports that the caller did not supply every required
// global parameter. The message lists all missing names at once.
var ErrMissingParameters = errors.New("missing global parameters")

// ResolveParameters merges the caller-supplied parameter values with the
// description's parameter spec. List-form specs require every named
// parameter; mapping-form specs fall back to declared defaults. All missing
// names are collected before failing, and supplied names the spec does not
// declare are dropped with a warning.
func ResolveParameters(ctx context.Context, spec *model.ParameterSpec, supplied map[string]any) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)
	resolved := make(map[string]any)
	var missing []string

	if spec.IsList() {
		for _, name := range spec.List {
			value, ok := supplied[name]
			if !ok {
				missing = append(missing, name)
				continue
			}
			resolved[name] = value
		}
	} else if spec != nil {
		for _, name := range spec.Names() {
			def := spec.Mapping[name]
			if value, ok := supplied[name]; ok {
				resolved[name] = value
				continue
			}
			if def.HasDefault {
				resolved[name] = def.Default
				continue
			}
			missing = append(missing, name)
		}
	}

	for name := range supplied {
		if !spec.Has(name) {
			logger.Warn("Dropping supplied parameter not declared by the description.", "parameter", name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingParameters, strings.Join(missing, ", "))
	}
	return resolved, nil
}

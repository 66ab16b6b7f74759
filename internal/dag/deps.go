package dag

import (
	"sort"

	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/refs"
)

// Dependencies computes the names of the steps one step depends on: every
// step named by a reference in its argument spec, united with its explicit
// dependency list. isParameter screens out bare references that name global
// parameters rather than steps. The result is sorted and deduplicated.
func Dependencies(step *model.StepDefinition, isParameter func(name string) bool) []string {
	found := make(map[string]struct{})

	for _, value := range step.ArgumentValues() {
		for _, ref := range refs.Collect(value) {
			name, output := refs.Split(ref)
			if output == "" && isParameter != nil && isParameter(name) {
				continue
			}
			found[name] = struct{}{}
		}
	}
	for _, dep := range step.Dependencies {
		found[dep] = struct{}{}
	}

	deps := make([]string, 0, len(found))
	for name := range found {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}

package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/model"
)

// step builds a short-form step with keyword args and explicit dependencies.
func step(kwargs map[string]any, deps ...string) *model.StepDefinition {
	return &model.StepDefinition{Task: "noop", Kwargs: kwargs, Dependencies: deps}
}

func TestDependencies(t *testing.T) {
	t.Parallel()

	isParameter := func(name string) bool { return name == "seed" }

	testCases := []struct {
		name     string
		step     *model.StepDefinition
		expected []string
	}{
		{
			name:     "dotted references name steps",
			step:     step(map[string]any{"model": "$train.model", "data": "$load.data"}),
			expected: []string{"load", "train"},
		},
		{
			name:     "bare parameter references are screened out",
			step:     step(map[string]any{"s": "$seed", "d": "$shuffle"}),
			expected: []string{"shuffle"},
		},
		{
			name:     "explicit dependencies merge and dedupe",
			step:     step(map[string]any{"m": "$train.model"}, "train", "setup"),
			expected: []string{"setup", "train"},
		},
		{
			name: "nested argument specs are scanned",
			step: step(map[string]any{
				"cfg": map[string]any{"paths": []any{"$fetch.path"}},
			}),
			expected: []string{"fetch"},
		},
		{
			name:     "no references no deps",
			step:     step(map[string]any{"x": 1}),
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Dependencies(tc.step, isParameter))
		})
	}
}

func TestSort_Ordering(t *testing.T) {
	t.Parallel()

	t.Run("linear chain", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"a": step(nil),
			"b": step(map[string]any{"in": "$a.out"}),
			"c": step(map[string]any{"in": "$b.out"}),
		}

		order, err := Sort(graph, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("diamond respects all edges", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"top":   step(nil),
			"left":  step(map[string]any{"in": "$top.out"}),
			"right": step(map[string]any{"in": "$top.out"}),
			"join":  step(map[string]any{"l": "$left.out", "r": "$right.out"}),
		}

		order, err := Sort(graph, nil)
		require.NoError(t, err)

		pos := make(map[string]int, len(order))
		for i, name := range order {
			pos[name] = i
		}
		assert.Less(t, pos["top"], pos["left"])
		assert.Less(t, pos["top"], pos["right"])
		assert.Less(t, pos["left"], pos["join"])
		assert.Less(t, pos["right"], pos["join"])
		assert.Len(t, order, 4)
	})

	t.Run("independent steps come out in name order", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"c": step(nil),
			"a": step(nil),
			"b": step(nil),
		}

		order, err := Sort(graph, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("transitive dependencies are ordered first", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"z": step(map[string]any{"in": "$m.out"}),
			"m": step(map[string]any{"in": "$a.out"}),
			"a": step(nil),
		}

		order, err := Sort(graph, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "m", "z"}, order)
	})

	t.Run("explicit dependencies order without references", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"cleanup": step(nil, "work"),
			"work":    step(nil, "setup"),
			"setup":   step(nil),
		}

		order, err := Sort(graph, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"setup", "work", "cleanup"}, order)
	})
}

func TestSort_Errors(t *testing.T) {
	t.Parallel()

	t.Run("two step cycle", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"a": step(map[string]any{"in": "$b.out"}),
			"b": step(map[string]any{"in": "$a.out"}),
		}

		_, err := Sort(graph, nil)
		require.ErrorIs(t, err, ErrCycle)
	})

	t.Run("self cycle", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"a": step(map[string]any{"in": "$a.out"}),
		}

		_, err := Sort(graph, nil)
		require.ErrorIs(t, err, ErrCycle)
	})

	t.Run("cycle through explicit dependency", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"a": step(map[string]any{"in": "$b.out"}),
			"b": step(nil, "a"),
		}

		_, err := Sort(graph, nil)
		require.ErrorIs(t, err, ErrCycle)
	})

	t.Run("dependency on an undeclared step", func(t *testing.T) {
		graph := map[string]*model.StepDefinition{
			"a": step(map[string]any{"in": "$ghost.out"}),
		}

		_, err := Sort(graph, nil)
		require.ErrorIs(t, err, ErrStepNotFound)
	})

	t.Run("empty graph sorts to an empty order", func(t *testing.T) {
		order, err := Sort(map[string]*model.StepDefinition{}, nil)
		require.NoError(t, err)
		assert.Empty(t, order)
	})
}

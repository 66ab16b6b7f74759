package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/model"
)

func TestResolveParameters_ListForm(t *testing.T) {
	t.Parallel()

	spec := &model.ParameterSpec{List: []string{"seed", "label", "rate"}}
	ctx := context.Background()

	t.Run("all supplied", func(t *testing.T) {
		resolved, err := ResolveParameters(ctx, spec, map[string]any{
			"seed": 1, "label": "x", "rate": 0.5,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"seed": 1, "label": "x", "rate": 0.5}, resolved)
	})

	t.Run("all missing names reported in one error", func(t *testing.T) {
		_, err := ResolveParameters(ctx, spec, map[string]any{"label": "x"})
		require.ErrorIs(t, err, ErrMissingParameters)
		assert.Contains(t, err.Error(), "rate, seed", "missing names are sorted")
		assert.NotContains(t, err.Error(), "label")
	})
}

func TestResolveParameters_MappingForm(t *testing.T) {
	t.Parallel()

	spec := &model.ParameterSpec{Mapping: map[string]*model.ParameterDefinition{
		"seed":  {Type: "integer"},
		"rate":  {Default: 0.1, HasDefault: true},
		"label": {Default: nil, HasDefault: true},
	}}
	ctx := context.Background()

	t.Run("supplied value beats the default", func(t *testing.T) {
		resolved, err := ResolveParameters(ctx, spec, map[string]any{"seed": 7, "rate": 0.9})
		require.NoError(t, err)
		assert.Equal(t, 0.9, resolved["rate"])
	})

	t.Run("defaults fill gaps including explicit null", func(t *testing.T) {
		resolved, err := ResolveParameters(ctx, spec, map[string]any{"seed": 7})
		require.NoError(t, err)
		assert.Equal(t, 0.1, resolved["rate"])

		value, ok := resolved["label"]
		assert.True(t, ok, "an explicit null default still resolves")
		assert.Nil(t, value)
	})

	t.Run("missing required parameter", func(t *testing.T) {
		_, err := ResolveParameters(ctx, spec, nil)
		require.ErrorIs(t, err, ErrMissingParameters)
		assert.Contains(t, err.Error(), "seed")
	})

	t.Run("undeclared supplied names are dropped", func(t *testing.T) {
		resolved, err := ResolveParameters(ctx, spec, map[string]any{"seed": 7, "mystery": true})
		require.NoError(t, err)
		assert.NotContains(t, resolved, "mystery")
	})
}

func TestResolveParameters_NoSpec(t *testing.T) {
	t.Parallel()

	resolved, err := ResolveParameters(context.Background(), nil, map[string]any{"anything": 1})
	require.NoError(t, err)
	assert.Empty(t, resolved, "without a spec no parameter is declared")
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	t.Parallel()

	t.Run("string rendering", func(t *testing.T) {
		issue := Errorf(IssueSemantic, "step %q is broken", "a")
		assert.Equal(t, `error [semantic] step "a" is broken`, issue.String())

		warn := Warnf(IssueSchema, "odd key")
		assert.Equal(t, "warning [schema] odd key", warn.String())
	})

	t.Run("has errors", func(t *testing.T) {
		assert.False(t, HasErrors(nil))
		assert.False(t, HasErrors([]Issue{Warnf(IssueSchema, "w")}))
		assert.True(t, HasErrors([]Issue{Warnf(IssueSchema, "w"), Errorf(IssueType, "e")}))
	})
}

func TestTaskDefinition(t *testing.T) {
	t.Parallel()

	task := &TaskDefinition{
		Plugin: "ml.models.train",
		Inputs: []TaskInput{
			{Name: "data", Type: "dataset", Required: true},
			{Name: "seed", Type: "integer"},
		},
		Outputs: []TaskOutput{
			{Name: "model", Type: "artifact"},
			{Name: "score", Type: "number"},
		},
	}

	t.Run("input and output lookup", func(t *testing.T) {
		require.NotNil(t, task.Input("seed"))
		assert.Nil(t, task.Input("nope"))
		require.NotNil(t, task.Output("score"))
		assert.Nil(t, task.Output("nope"))
	})

	t.Run("type names deduplicate in first-appearance order", func(t *testing.T) {
		dup := &TaskDefinition{
			Inputs:  []TaskInput{{Name: "a", Type: "dataset"}, {Name: "b", Type: "dataset"}, {Name: "c"}},
			Outputs: []TaskOutput{{Name: "out", Type: "artifact"}},
		}
		assert.Equal(t, []string{"dataset", "artifact"}, dup.TypeNames())
	})
}

func TestStepDefinition_ArgumentValues(t *testing.T) {
	t.Parallel()

	step := &StepDefinition{
		Args:   []any{"first", "second"},
		Kwargs: map[string]any{"z": 3, "a": 1},
	}
	assert.Equal(t, []any{"first", "second", 1, 3}, step.ArgumentValues(),
		"positional first, then keywords in sorted key order")
}

func TestTypeDefinition_ReferencedTypes(t *testing.T) {
	t.Parallel()

	t.Run("nil definition has no dependencies", func(t *testing.T) {
		var def *TypeDefinition
		assert.Empty(t, def.ReferencedTypes())
	})

	t.Run("recurses through nested structures", func(t *testing.T) {
		def := &TypeDefinition{
			Union: []TypeExpr{
				{Name: "celsius"},
				{Structure: &TypeDefinition{
					List: TypeExpr{Structure: &TypeDefinition{
						MappingProps: map[string]TypeExpr{
							"x": {Name: "coordinate"},
							"y": {Name: "coordinate"},
						},
					}},
				}},
				{Structure: &TypeDefinition{Tuple: []TypeExpr{{Name: "label"}}}},
			},
		}
		assert.Equal(t, []string{"celsius", "coordinate", "label"}, def.ReferencedTypes())
	})
}

func TestDescription_Types(t *testing.T) {
	t.Parallel()

	desc := &Description{}
	assert.False(t, desc.HasType("token"))

	desc.SetType("token", nil)
	assert.True(t, desc.HasType("token"), "a declared-null type is still declared")

	desc.SetType("token", &TypeDefinition{IsA: "string"})
	assert.Equal(t, "string", desc.Types["token"].IsA)
}

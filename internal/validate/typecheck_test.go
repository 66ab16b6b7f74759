package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/model"
)

func TestCheckTypes_TaskDeclarations(t *testing.T) {
	t.Parallel()

	t.Run("unknown input type name", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  train:
    plugin: ml.models.train
    inputs:
      - data: mystery
graph:
  a:
    train:
      data: 1
`)
		require.True(t, model.HasErrors(issues))
		assert.Contains(t, issues[0].Message, `unknown type "mystery"`)
	})

	t.Run("unknown output type name", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  make:
    plugin: core.util.make
    outputs:
      out: mystery
graph:
  a:
    make:
`)
		require.True(t, model.HasErrors(issues))
		assert.Contains(t, issues[0].Message, `unknown type "mystery"`)
	})
}

func TestCheckTypes_ParameterDefaults(t *testing.T) {
	t.Parallel()

	t.Run("incompatible default", func(t *testing.T) {
		issues := checkSource(t, `
parameters:
  seed:
    type: integer
    default: not-a-number
tasks:
  noop:
    plugin: core.util.noop
graph:
  a:
    noop:
`)
		assertOneError(t, issues, model.IssueType, "not compatible")
	})

	t.Run("integer default satisfies number", func(t *testing.T) {
		issues := checkSource(t, `
parameters:
  rate:
    type: number
    default: 3
tasks:
  noop:
    plugin: core.util.noop
graph:
  a:
    noop:
`)
		assert.Empty(t, issues)
	})

	t.Run("default checked against a declared structure", func(t *testing.T) {
		issues := checkSource(t, `
parameters:
  weights:
    type: weights
    default: [0.1, 0.9]
types:
  weights:
    list: number
tasks:
  noop:
    plugin: core.util.noop
graph:
  a:
    noop:
`)
		assert.Empty(t, issues)
	})
}

func TestCheckTypes_StepArguments(t *testing.T) {
	t.Parallel()

	t.Run("literal mismatch", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  train:
    plugin: ml.models.train
    inputs:
      - epochs: integer
graph:
  a:
    train: many
`)
		assertOneError(t, issues, model.IssueType, "not compatible")
	})

	t.Run("too many positional arguments", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  one:
    plugin: core.util.one
    inputs:
      - v: any
graph:
  a:
    one: [1, 2]
`)
		assertOneError(t, issues, model.IssueType, "too many positional")
	})

	t.Run("unknown keyword argument", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  train:
    plugin: ml.models.train
    inputs:
      - name: epochs
        type: integer
        required: false
graph:
  a:
    train:
      epochz: 5
`)
		assertOneError(t, issues, model.IssueType, "unknown keyword argument")
	})

	t.Run("missing required argument", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  train:
    plugin: ml.models.train
    inputs:
      - epochs: integer
graph:
  a:
    train:
`)
		assertOneError(t, issues, model.IssueType, "missing required argument")
	})

	t.Run("reference argument typed by declaration", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  make_text:
    plugin: core.text.make
    outputs:
      out: string
  want_number:
    plugin: core.math.want
    inputs:
      - n: number
graph:
  a:
    make_text:
  b:
    want_number: $a.out
`)
		assertOneError(t, issues, model.IssueType, "not compatible")
	})

	t.Run("parameter reference uses declared type", func(t *testing.T) {
		issues := checkSource(t, `
parameters:
  label:
    type: string
tasks:
  want_number:
    plugin: core.math.want
    inputs:
      - n: number
graph:
  a:
    want_number: $label
`)
		assertOneError(t, issues, model.IssueType, "not compatible")
	})

	t.Run("untyped parameter with default infers from the default", func(t *testing.T) {
		issues := checkSource(t, `
parameters:
  seed: 7
tasks:
  want_number:
    plugin: core.math.want
    inputs:
      - n: number
graph:
  a:
    want_number: $seed
`)
		assert.Empty(t, issues)
	})

	t.Run("named structures compare nominally", func(t *testing.T) {
		issues := checkSource(t, `
types:
  celsius_series:
    list: number
  kelvin_series:
    list: number
tasks:
  make:
    plugin: sensors.temps.make
    outputs:
      out: celsius_series
  plot:
    plugin: charts.series.plot
    inputs:
      - series: kelvin_series
graph:
  a:
    make:
  b:
    plot: $a.out
`)
		assertOneError(t, issues, model.IssueType, "not compatible")
	})

	t.Run("tuple literal fits a declared list", func(t *testing.T) {
		issues := checkSource(t, `
types:
  series:
    list: number
tasks:
  plot:
    plugin: charts.series.plot
    inputs:
      - series: series
graph:
  a:
    plot:
      series: [1, 2.5, 3]
`)
		assert.Empty(t, issues)
	})
}

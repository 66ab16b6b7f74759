package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/testutil"
)

// checkSource decodes an inline description and runs the full check chain.
func checkSource(t *testing.T, source string) []model.Issue {
	t.Helper()
	return Check(testutil.MustDecode(t, source))
}

func assertOneError(t *testing.T, issues []model.Issue, kind model.IssueKind, substr string) {
	t.Helper()
	require.Len(t, issues, 1, "expected exactly one issue, got %v", issues)
	assert.Equal(t, kind, issues[0].Kind)
	assert.Equal(t, model.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, substr)
}

func TestCheck_CleanDescription(t *testing.T) {
	t.Parallel()

	issues := checkSource(t, `
parameters:
  seed:
    type: integer
    default: 7
tasks:
  load:
    plugin: data.files.load
    inputs:
      - path: string
    outputs:
      out: dataset
  train:
    plugin: ml.models.train
    inputs:
      - name: data
        type: dataset
      - name: seed
        type: integer
        required: false
    outputs:
      model: artifact
types:
  dataset:
  artifact:
graph:
  step1:
    load: /data/input.csv
  step2:
    train:
      data: $step1.out
      seed: $seed
`)
	assert.Empty(t, issues)
}

func TestCheck_SemanticErrors(t *testing.T) {
	t.Parallel()

	t.Run("undefined task", func(t *testing.T) {
		issues := checkSource(t, `
graph:
  a:
    ghost_task:
`)
		assertOneError(t, issues, model.IssueSemantic, "undefined task")
	})

	t.Run("parameter name with a dot", func(t *testing.T) {
		issues := checkSource(t, `
parameters: [bad.name]
tasks:
  noop:
    plugin: core.util.noop
graph:
  a:
    noop:
`)
		require.NotEmpty(t, issues)
		assert.Contains(t, issues[0].Message, `must not contain "."`)
	})

	t.Run("step and parameter name collision", func(t *testing.T) {
		issues := checkSource(t, `
parameters: [a]
tasks:
  noop:
    plugin: core.util.noop
graph:
  a:
    noop:
`)
		assertOneError(t, issues, model.IssueSemantic, "collides")
	})

	t.Run("bad shape reports its properties", func(t *testing.T) {
		issues := checkSource(t, `
graph:
  confused:
    first:
    second:
`)
		require.NotEmpty(t, issues)
		assert.Contains(t, issues[0].Message, "exactly one property")
		assert.Contains(t, issues[0].Message, "first, second")
	})

	t.Run("dangling reference", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  noop:
    plugin: core.util.noop
    inputs:
      - v: any
graph:
  a:
    noop: $nowhere
`)
		assertOneError(t, issues, model.IssueSemantic, "does not resolve")
	})

	t.Run("reference to unknown output", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  make:
    plugin: core.util.make
    outputs:
      out: any
  use:
    plugin: core.util.use
    inputs:
      - v: any
graph:
  a:
    make:
  b:
    use: $a.wrong
`)
		assertOneError(t, issues, model.IssueSemantic, "unknown output")
	})

	t.Run("ambiguous bare reference to a multi-output step", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  split:
    plugin: data.sets.split
    outputs:
      - left: any
      - right: any
  use:
    plugin: core.util.use
    inputs:
      - v: any
graph:
  a:
    split:
  b:
    use: $a
`)
		assertOneError(t, issues, model.IssueSemantic, "ambiguous")
	})

	t.Run("explicit dependency on undefined step", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  noop:
    plugin: core.util.noop
graph:
  a:
    noop:
    dependencies: phantom
`)
		assertOneError(t, issues, model.IssueSemantic, "undefined step")
	})

	t.Run("cycle is a semantic issue", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  make:
    plugin: core.util.make
    inputs:
      - name: v
        type: any
        required: false
    outputs:
      out: any
graph:
  a:
    make: $b.out
  b:
    make: $a.out
`)
		assertOneError(t, issues, model.IssueSemantic, "cycle")
	})

	t.Run("malformed plugin coordinate", func(t *testing.T) {
		issues := checkSource(t, `
tasks:
  bad:
    plugin: nodots
graph:
  a:
    bad:
`)
		assertOneError(t, issues, model.IssueSemantic, "not a dotted path")
	})
}

func TestCheck_GatedPasses(t *testing.T) {
	t.Parallel()

	// An undefined task must not cascade into reference or cycle errors.
	issues := checkSource(t, `
graph:
  a:
    ghost: $b.out
  b:
    ghost2:
`)
	require.True(t, model.HasErrors(issues))
	for _, issue := range issues {
		assert.Contains(t, issue.Message, "undefined task",
			"only the root cause should be reported, got %q", issue.Message)
	}
}

func TestCheck_ShortFormTaskKeyWarning(t *testing.T) {
	t.Parallel()

	issues := checkSource(t, `
tasks:
  pack:
    plugin: core.util.pack
    inputs:
      - payload: any
graph:
  wrapped:
    pack:
      task: inner
  explicit:
    task: pack
    args:
      - task: inner
`)

	messages := testutil.IssueMessages(issues)
	require.Len(t, messages, 1, "only the short form warns: %v", messages)
	assert.Contains(t, messages[0], `warning [semantic] step "wrapped"`)
	assert.Contains(t, messages[0], "positional literal")
	assert.False(t, model.HasErrors(issues), "the warning does not block execution")
}

func TestCoordinateWellFormed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		plugin   string
		expected bool
	}{
		{plugin: "ml.models.train", expected: true},
		{plugin: "a.b", expected: true},
		{plugin: "nodots", expected: false},
		{plugin: ".leading", expected: false},
		{plugin: "trailing.", expected: false},
		{plugin: "a..b", expected: false},
		{plugin: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(strings.ReplaceAll(tc.plugin, ".", "_"), func(t *testing.T) {
			assert.Equal(t, tc.expected, coordinateWellFormed(tc.plugin))
		})
	}
}

package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/model"
)

func TestStatic_TaskLookup(t *testing.T) {
	t.Parallel()

	primary := &model.TaskDefinition{Plugin: "primary.source.train"}
	fallback := &model.TaskDefinition{Plugin: "fallback.source.train"}

	s := NewStatic().
		AddTask("train", primary).
		AddFallbackTask("train", fallback).
		AddFallbackTask("extra", fallback)

	ctx := context.Background()

	t.Run("primary wins regardless of fallback", func(t *testing.T) {
		def, found, err := s.TaskDefinition(ctx, "train", true)
		require.NoError(t, err)
		require.True(t, found)
		assert.Same(t, primary, def)
	})

	t.Run("fallback requires permission", func(t *testing.T) {
		_, found, err := s.TaskDefinition(ctx, "extra", false)
		require.NoError(t, err)
		assert.False(t, found)

		def, found, err := s.TaskDefinition(ctx, "extra", true)
		require.NoError(t, err)
		require.True(t, found)
		assert.Same(t, fallback, def)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, found, err := s.TaskDefinition(ctx, "ghost", true)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestStatic_TypeLookup(t *testing.T) {
	t.Parallel()

	s := NewStatic().
		AddType("artifact", &model.TypeDefinition{IsA: "string"}).
		AddType("token", nil)

	ctx := context.Background()

	t.Run("declared type", func(t *testing.T) {
		def, found, err := s.TypeDefinition(ctx, "artifact")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "string", def.IsA)
	})

	t.Run("declared null type is found with a nil definition", func(t *testing.T) {
		def, found, err := s.TypeDefinition(ctx, "token")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Nil(t, def)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, found, err := s.TypeDefinition(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestLoadStatic(t *testing.T) {
	t.Parallel()

	t.Run("valid definitions file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.yaml")
		content := `
tasks:
  train:
    plugin: ml.models.train
    inputs:
      - data: dataset
    outputs:
      model: artifact
types:
  dataset:
    list: string
  artifact:
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		s, err := LoadStatic(context.Background(), path)
		require.NoError(t, err)

		def, found, err := s.TaskDefinition(context.Background(), "train", false)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "ml.models.train", def.Plugin)

		typ, found, err := s.TypeDefinition(context.Background(), "artifact")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Nil(t, typ, "a null entry is a declared structureless type")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStatic(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed task definition", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.yaml")
		content := `
tasks:
  broken:
    inputs: []
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		_, err := LoadStatic(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})
}

// countingRegistry counts inner lookups to observe cache behavior.
type countingRegistry struct {
	inner     Registry
	taskCalls int
	typeCalls int
	fail      bool
}

func (c *countingRegistry) TaskDefinition(ctx context.Context, shortName string, allowFallback bool) (*model.TaskDefinition, bool, error) {
	c.taskCalls++
	if c.fail {
		return nil, false, errors.New("lookup failed")
	}
	return c.inner.TaskDefinition(ctx, shortName, allowFallback)
}

func (c *countingRegistry) TypeDefinition(ctx context.Context, name string) (*model.TypeDefinition, bool, error) {
	c.typeCalls++
	if c.fail {
		return nil, false, errors.New("lookup failed")
	}
	return c.inner.TypeDefinition(ctx, name)
}

func TestCached(t *testing.T) {
	t.Parallel()

	newCounting := func() *countingRegistry {
		s := NewStatic().
			AddTask("train", &model.TaskDefinition{Plugin: "ml.models.train"}).
			AddFallbackTask("spare", &model.TaskDefinition{Plugin: "ml.models.spare"}).
			AddType("artifact", &model.TypeDefinition{IsA: "string"})
		return &countingRegistry{inner: s}
	}
	ctx := context.Background()

	t.Run("repeated task lookups hit the cache", func(t *testing.T) {
		counting := newCounting()
		cached, err := NewCached(counting)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			def, found, err := cached.TaskDefinition(ctx, "train", false)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "ml.models.train", def.Plugin)
		}
		assert.Equal(t, 1, counting.taskCalls)
	})

	t.Run("fallback and strict lookups cache separately", func(t *testing.T) {
		counting := newCounting()
		cached, err := NewCached(counting)
		require.NoError(t, err)

		_, found, _ := cached.TaskDefinition(ctx, "spare", false)
		assert.False(t, found)
		_, found, _ = cached.TaskDefinition(ctx, "spare", true)
		assert.True(t, found)
		assert.Equal(t, 2, counting.taskCalls)
	})

	t.Run("negative results are cached", func(t *testing.T) {
		counting := newCounting()
		cached, err := NewCached(counting)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, found, err := cached.TypeDefinition(ctx, "ghost")
			require.NoError(t, err)
			assert.False(t, found)
		}
		assert.Equal(t, 1, counting.typeCalls)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		counting := newCounting()
		counting.fail = true
		cached, err := NewCached(counting)
		require.NoError(t, err)

		_, _, err = cached.TypeDefinition(ctx, "artifact")
		require.Error(t, err)
		_, _, err = cached.TypeDefinition(ctx, "artifact")
		require.Error(t, err)
		assert.Equal(t, 2, counting.typeCalls)

		// Once the source recovers, the result is served and then cached.
		counting.fail = false
		def, found, err := cached.TypeDefinition(ctx, "artifact")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "string", def.IsA)
		assert.Equal(t, 3, counting.typeCalls)

		_, _, err = cached.TypeDefinition(ctx, "artifact")
		require.NoError(t, err)
		assert.Equal(t, 3, counting.typeCalls)
	})
}

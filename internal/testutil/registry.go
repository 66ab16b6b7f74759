package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/document"
	"github.com/vk/taskgridgo/internal/model"
	"github.com/vk/taskgridgo/internal/registry"
)

// RegistryBuilder assembles an in-memory registry from inline YAML fragments.
type RegistryBuilder struct {
	static *registry.Static
}

// NewRegistryBuilder creates an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{static: registry.NewStatic()}
}

// WithTask registers a task definition decoded from an inline YAML mapping.
func (b *RegistryBuilder) WithTask(t *testing.T, name, source string) *RegistryBuilder {
	t.Helper()
	b.static.AddTask(name, decodeTask(t, source))
	return b
}

// WithFallbackTask registers a fallback task definition.
func (b *RegistryBuilder) WithFallbackTask(t *testing.T, name, source string) *RegistryBuilder {
	t.Helper()
	b.static.AddFallbackTask(name, decodeTask(t, source))
	return b
}

// WithType registers a type definition decoded from an inline YAML value.
// An empty source registers a declared-null type.
func (b *RegistryBuilder) WithType(t *testing.T, name, source string) *RegistryBuilder {
	t.Helper()
	if source == "" {
		b.static.AddType(name, nil)
		return b
	}
	raw := mustParseValue(t, source)
	def, err := document.DecodeType(raw)
	require.NoError(t, err, "test type %q must decode", name)
	b.static.AddType(name, def)
	return b
}

// Build returns the assembled registry.
func (b *RegistryBuilder) Build() *registry.Static {
	return b.static
}

func decodeTask(t *testing.T, source string) *model.TaskDefinition {
	t.Helper()
	raw := MustParse(t, source)
	def, err := document.DecodeTask(raw)
	require.NoError(t, err, "test task must decode")
	return def
}

func mustParseValue(t *testing.T, source string) any {
	t.Helper()
	raw, err := document.ParseValue([]byte(source))
	require.NoError(t, err, "test value must parse")
	return raw
}

package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/document"
	"github.com/vk/taskgridgo/internal/model"
)

// Static is an in-memory Registry populated up front, either directly or
// from a definitions file. The fallback task source is a separate map,
// consulted only when the caller allows it.
type Static struct {
	tasks         map[string]*model.TaskDefinition
	fallbackTasks map[string]*model.TaskDefinition
	types         map[string]*model.TypeDefinition
}

// NewStatic returns an empty static registry.
func NewStatic() *Static {
	return &Static{
		tasks:         make(map[string]*model.TaskDefinition),
		fallbackTasks: make(map[string]*model.TaskDefinition),
		types:         make(map[string]*model.TypeDefinition),
	}
}

// AddTask registers a task definition under its short name.
func (s *Static) AddTask(shortName string, def *model.TaskDefinition) *Static {
	s.tasks[shortName] = def
	return s
}

// AddFallbackTask registers a task definition visible only to lookups that
// allow the fallback source.
func (s *Static) AddFallbackTask(shortName string, def *model.TaskDefinition) *Static {
	s.fallbackTasks[shortName] = def
	return s
}

// AddType registers a type definition. A nil definition is a valid
// structureless type.
func (s *Static) AddType(name string, def *model.TypeDefinition) *Static {
	s.types[name] = def
	return s
}

// TaskDefinition implements Registry.
func (s *Static) TaskDefinition(_ context.Context, shortName string, allowFallback bool) (*model.TaskDefinition, bool, error) {
	if def, ok := s.tasks[shortName]; ok {
		return def, true, nil
	}
	if allowFallback {
		if def, ok := s.fallbackTasks[shortName]; ok {
			return def, true, nil
		}
	}
	return nil, false, nil
}

// TypeDefinition implements Registry.
func (s *Static) TypeDefinition(_ context.Context, name string) (*model.TypeDefinition, bool, error) {
	def, ok := s.types[name]
	return def, ok, nil
}

// registryFile is the document shape of a definitions file: the same task
// and type grammar as a description, without a graph.
type registryFile struct {
	Tasks map[string]any `yaml:"tasks"`
	Types map[string]any `yaml:"types"`
}

// LoadStatic reads a definitions file (YAML or JSON) into a static registry.
// Task and type definitions follow the same grammar as the matching
// description sections.
func LoadStatic(ctx context.Context, path string) (*Static, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading registry definitions.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}

	s := NewStatic()
	for name, rawDef := range file.Tasks {
		def, err := document.DecodeTask(rawDef)
		if err != nil {
			return nil, fmt.Errorf("registry task %q: %w", name, err)
		}
		s.AddTask(name, def)
	}
	for name, rawDef := range file.Types {
		def, err := document.DecodeType(rawDef)
		if err != nil {
			return nil, fmt.Errorf("registry type %q: %w", name, err)
		}
		s.AddType(name, def)
	}
	logger.Debug("Registry definitions loaded.", "tasks", len(s.tasks), "types", len(s.types))
	return s, nil
}

package registry

import (
	"context"

	"github.com/vk/taskgridgo/internal/model"
)

// Registry supplies task and type definitions to the completion engine. It
// is an external, read-mostly collaborator: implementations may sit on a
// service or database, so lookups take a context and may fail outright.
type Registry interface {
	// TaskDefinition looks up a task by its short name. allowFallback
	// permits the implementation to consult a secondary source when the
	// primary has no entry. found is false when no source has the task.
	TaskDefinition(ctx context.Context, shortName string, allowFallback bool) (def *model.TaskDefinition, found bool, err error)

	// TypeDefinition looks up a type by name. A found nil definition is a
	// valid structureless type, distinct from found == false.
	TypeDefinition(ctx context.Context, name string) (def *model.TypeDefinition, found bool, err error)
}

package document

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/taskgridgo/internal/ctxlog"
)

// Load reads and parses a description document from disk. YAML and JSON both
// parse; JSON is a YAML subset.
func Load(ctx context.Context, path string) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading description document.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description %s: %w", path, err)
	}
	raw, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse description %s: %w", path, err)
	}
	logger.Debug("Description document parsed.", "top_level_keys", len(raw))
	return raw, nil
}

// Parse unmarshals a description document into its raw nested-mapping form.
// It fails only on malformed input or a non-mapping top level; everything
// structural beyond that is schema validation's job.
func Parse(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be a mapping, got %T", doc)
	}
	return raw, nil
}

// ParseValue unmarshals a standalone YAML value, for example a single type
// expression outside a full document.
func ParseValue(data []byte) (any, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

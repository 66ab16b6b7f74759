package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/document"
	"github.com/vk/taskgridgo/internal/model"
)

// MustParse parses an inline YAML document and fails the test on any error.
func MustParse(t *testing.T, source string) map[string]any {
	t.Helper()
	raw, err := document.Parse([]byte(source))
	require.NoError(t, err, "test document must parse")
	return raw
}

// MustDecode parses and decodes an inline YAML description, failing the test
// if the document is structurally broken.
func MustDecode(t *testing.T, source string) *model.Description {
	t.Helper()
	raw := MustParse(t, source)
	issues := document.ValidateSchema(raw)
	require.False(t, model.HasErrors(issues), "test description must pass schema validation: %v", issues)
	desc, err := document.Decode(raw)
	require.NoError(t, err, "test description must decode")
	return desc
}

// IssueMessages flattens issues into their rendered string form for
// substring assertions.
func IssueMessages(issues []model.Issue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.String())
	}
	return messages
}

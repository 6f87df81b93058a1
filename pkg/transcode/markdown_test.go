package transcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
)

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown([]HeaderField{
		Scalar("description", "Reviews code"),
		Scalar("mode", "subagent"),
		Nested("tools", "read: true", "bash: false"),
	}, "Body text")

	expected := "---\n" +
		"description: Reviews code\n" +
		"mode: subagent\n" +
		"tools:\n" +
		"  read: true\n" +
		"  bash: false\n" +
		"---\n\n" +
		"Body text"
	assert.Equal(t, expected, string(out))
}

func TestRenderMarkdownReparses(t *testing.T) {
	metadata := map[string]string{
		"name":        "reviewer",
		"description": "Reviews code: carefully",
		"model":       "sonnet",
	}
	body := "# Reviewer\n\nLine one.\n\n- item"

	out := RenderMarkdown([]HeaderField{
		Scalar("name", metadata["name"]),
		Scalar("description", metadata["description"]),
		Nested("tools", "- read_file"),
		Scalar("model", metadata["model"]),
	}, body)

	reparsed, reparsedBody, err := frontmatter.Parse("out.md", string(out))
	require.NoError(t, err)
	assert.Equal(t, metadata, reparsed)
	assert.Equal(t, body, reparsedBody)
}

package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `---
name: code-reviewer
description: Reviews code for quality
tools: Read, Grep, Glob
model: sonnet
---

You are a code reviewer.

Use ` + "`Read`" + ` to open files.
`

	metadata, body, err := Parse("agents/code-reviewer.md", content)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name":        "code-reviewer",
		"description": "Reviews code for quality",
		"tools":       "Read, Grep, Glob",
		"model":       "sonnet",
	}, metadata)
	assert.Equal(t, "You are a code reviewer.\n\nUse `Read` to open files.", body)
}

func TestParseSkipsNonMatchingLines(t *testing.T) {
	content := `---
description: Has a list below
allowed:
  - one
  - two
# comment
not a field
key-with-dash: ignored
---
body`

	metadata, body, err := Parse("x.md", content)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"description": "Has a list below"}, metadata)
	assert.Equal(t, "body", body)
}

func TestParseKeepsRawValues(t *testing.T) {
	content := "---\ndescription:   \"quoted: value\"   \ntools: Read\ntools: Bash\n---\n\n  text  \n\n"

	metadata, body, err := Parse("x.md", content)
	require.NoError(t, err)

	assert.Equal(t, `"quoted: value"`, metadata["description"])
	assert.Equal(t, "Bash", metadata["tools"], "later duplicate keys win")
	assert.Equal(t, "text", body)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no delimiters", "just some markdown\n"},
		{"missing closing delimiter", "---\nname: x\nbody without end\n"},
		{"closing delimiter without newline", "---\nname: x\n---"},
		{"leading text", "intro\n---\nname: x\n---\nbody"},
		{"empty header", "---\n---\nbody"},
		{"crlf line endings", "---\r\nname: x\r\n---\r\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata, body, err := Parse("agents/broken.md", tt.content)
			require.Error(t, err)
			assert.Nil(t, metadata)
			assert.Empty(t, body)

			assert.True(t, errors.Is(err, ErrMalformedDefinition))

			var malformed *MalformedDefinitionError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "agents/broken.md", malformed.Path)
			assert.Contains(t, err.Error(), "agents/broken.md")
		})
	}
}

func TestParseEmptyValue(t *testing.T) {
	metadata, _, err := Parse("x.md", "---\ntools: \nmodel:\n---\nbody")
	require.NoError(t, err)

	_, hasModel := metadata["model"]
	assert.False(t, hasModel, "a key with nothing after the colon does not match")
	assert.Equal(t, "", metadata["tools"])

	def := &Definition{Metadata: metadata}
	_, ok := def.Get("tools")
	assert.False(t, ok)
}

func TestParseAgent(t *testing.T) {
	def, err := ParseAgent("/tmp/agents/planner.md", "---\ndescription: Plans\n---\nPlan things.")
	require.NoError(t, err)

	assert.Equal(t, KindAgent, def.Kind)
	assert.Equal(t, "planner", def.Name)
	assert.Equal(t, "/tmp/agents/planner.md", def.Path)
	assert.Equal(t, "Plans", def.Metadata["description"])
	_, hasName := def.Metadata["name"]
	assert.False(t, hasName)
	assert.Equal(t, "Plan things.", def.Body)
}

func TestParseSkill(t *testing.T) {
	t.Run("injects directory name", func(t *testing.T) {
		def, err := ParseSkill("skills/commit/SKILL.md", "commit", "---\ndescription: Commits\n---\nSteps")
		require.NoError(t, err)

		assert.Equal(t, KindSkill, def.Kind)
		assert.Equal(t, "commit", def.Name)
		assert.Equal(t, "commit", def.Metadata["name"])
	})

	t.Run("keeps declared name", func(t *testing.T) {
		def, err := ParseSkill("skills/commit/SKILL.md", "commit", "---\nname: git-commit\ndescription: Commits\n---\nSteps")
		require.NoError(t, err)

		assert.Equal(t, "commit", def.Name)
		assert.Equal(t, "git-commit", def.Metadata["name"])
	})

	t.Run("malformed", func(t *testing.T) {
		def, err := ParseSkill("skills/commit/SKILL.md", "commit", "no header")
		assert.Nil(t, def)
		assert.True(t, errors.Is(err, ErrMalformedDefinition))
	})
}

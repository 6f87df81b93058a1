package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "valid header",
			content: "---\ndescription: Reviews code\nmode: subagent\ntools:\n  read: true\n  bash: false\n---\n\nbody",
		},
		{
			name:    "valid list header",
			content: "---\nname: reviewer\ntools:\n  - read_file\n  - glob\n---\n\nbody",
		},
		{
			name:    "unquoted colon in value",
			content: "---\ndescription: Use when: reviewing code\n---\n\nbody",
			wantErr: "not valid YAML",
		},
		{
			name:    "no header",
			content: "# Title\n\nbody",
			wantErr: "missing frontmatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify([]byte(tt.content))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

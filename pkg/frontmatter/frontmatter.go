// Package frontmatter splits Claude Code agent and skill definitions into a flat
// key/value header and a markdown body. Header values are kept as raw strings;
// nested YAML is never interpreted.
package frontmatter

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind identifies what sort of definition a file holds
type Kind string

// Definition kinds
const (
	KindAgent Kind = "agent"
	KindSkill Kind = "skill"
)

// SkillFileName is the fixed markdown file inside every skill directory
const SkillFileName = "SKILL.md"

var (
	documentPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)$`)
	fieldPattern    = regexp.MustCompile(`^(\w+):\s*(.+)$`)
)

// Definition is a parsed agent or skill source file
type Definition struct {
	Kind     Kind
	Name     string            // agent file stem or skill directory name
	Path     string            // source file path
	Metadata map[string]string // raw header fields
	Body     string            // markdown after the header, trimmed
}

// Get returns a header field, treating an empty value as absent
func (d *Definition) Get(key string) (string, bool) {
	v, ok := d.Metadata[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Parse splits content into header fields and body. path is only used to
// identify the file in the returned error.
func Parse(path, content string) (map[string]string, string, error) {
	match := documentPattern.FindStringSubmatch(content)
	if match == nil {
		return nil, "", &MalformedDefinitionError{Path: path}
	}

	metadata := make(map[string]string)
	for _, line := range strings.Split(match[1], "\n") {
		m := fieldPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		metadata[m[1]] = strings.TrimSpace(m[2])
	}

	return metadata, strings.TrimSpace(match[2]), nil
}

// ParseAgent parses an agent file. The definition is named after the file stem.
func ParseAgent(path, content string) (*Definition, error) {
	metadata, body, err := Parse(path, content)
	if err != nil {
		return nil, err
	}

	return &Definition{
		Kind:     KindAgent,
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:     path,
		Metadata: metadata,
		Body:     body,
	}, nil
}

// ParseSkill parses a skill's SKILL.md. When the header has no name the skill
// directory name is injected.
func ParseSkill(path, skillName, content string) (*Definition, error) {
	metadata, body, err := Parse(path, content)
	if err != nil {
		return nil, err
	}

	if metadata["name"] == "" {
		metadata["name"] = skillName
	}

	return &Definition{
		Kind:     KindSkill,
		Name:     skillName,
		Path:     path,
		Metadata: metadata,
		Body:     body,
	}, nil
}

package transcode

import (
	"path/filepath"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
)

// Format is the concrete syntax a dialect writes
type Format string

// Output formats
const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Serializer renders a converted document in a dialect's concrete syntax
type Serializer interface {
	Serialize(doc *Document) ([]byte, error)
}

// SerializerFunc adapts a function to Serializer
type SerializerFunc func(doc *Document) ([]byte, error)

// Serialize calls f(doc)
func (f SerializerFunc) Serialize(doc *Document) ([]byte, error) {
	return f(doc)
}

// Layout decides where a converted definition is written, relative to the
// output directory
type Layout func(kind frontmatter.Kind, name string) string

// FlatLayout writes every definition as <name><ext>
func FlatLayout(ext string) Layout {
	return func(_ frontmatter.Kind, name string) string {
		return name + ext
	}
}

// SkillDirLayout writes agents as <name><ext> and skills as
// <name>/SKILL.md, preserving the skill directory structure
func SkillDirLayout(ext string) Layout {
	return func(kind frontmatter.Kind, name string) string {
		if kind == frontmatter.KindSkill {
			return filepath.Join(name, frontmatter.SkillFileName)
		}
		return name + ext
	}
}

// Dialect is everything that distinguishes one target format from another.
// Dialects are built once and treated as read-only afterwards.
type Dialect struct {
	Name        string
	Title       string // human-readable target name, e.g. "OpenCode"
	Format      Format
	Tools       ToolMapping
	Models      ModelMapping
	Rules       TextRules
	AgentShape  ToolShape
	DefaultType string                      // conversion type used when none is requested
	OutputDirs  map[frontmatter.Kind]string // default output directory per kind
	Layout      Layout
	Serializer  Serializer
}

// DefaultOutputDir returns the output directory used when none is given
func (d *Dialect) DefaultOutputDir(kind frontmatter.Kind) string {
	return d.OutputDirs[kind]
}

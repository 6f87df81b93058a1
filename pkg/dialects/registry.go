// Package dialects defines the supported target dialects and the registry
// the CLI resolves them from.
package dialects

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

// Conversion types accepted by --type
const (
	TypeAgents = "agents"
	TypeSkills = "skills"
	TypeAll    = "all"
)

// ErrUnknownDialect is returned when a dialect name is not registered
var ErrUnknownDialect = errors.New("unknown dialect")

// Constructor builds a dialect with its defaults
type Constructor func(o Overrides) *transcode.Dialect

var registry = map[string]Constructor{
	"opencode": OpenCode,
	"kiro":     Kiro,
	"gemini":   Gemini,
}

// Names returns the registered dialect names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get builds the named dialect with overrides applied on top of its defaults
func Get(name string, o Overrides) (*transcode.Dialect, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDialect, "%q (available: %s)", name, strings.Join(Names(), ", "))
	}

	d, err := o.Apply(ctor(o))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid overrides for %s", name)
	}
	return d, nil
}

// All builds every registered dialect with its defaults
func All() []*transcode.Dialect {
	names := Names()
	all := make([]*transcode.Dialect, 0, len(names))
	for _, name := range names {
		all = append(all, registry[name](Overrides{}))
	}
	return all
}

// Kinds returns the definition kinds a conversion type covers
func Kinds(conversionType string) ([]frontmatter.Kind, error) {
	switch conversionType {
	case TypeAgents:
		return []frontmatter.Kind{frontmatter.KindAgent}, nil
	case TypeSkills:
		return []frontmatter.Kind{frontmatter.KindSkill}, nil
	case TypeAll:
		return []frontmatter.Kind{frontmatter.KindAgent, frontmatter.KindSkill}, nil
	default:
		return nil, errors.Errorf("invalid type %q: must be one of %s, %s, %s", conversionType, TypeAgents, TypeSkills, TypeAll)
	}
}

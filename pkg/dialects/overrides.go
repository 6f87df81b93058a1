package dialects

import (
	"sort"
	"strings"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

// Overrides adjusts a dialect's defaults from configuration. Zero values
// leave the defaults untouched.
type Overrides struct {
	// OutputDir replaces the default output directory for every kind
	OutputDir string `mapstructure:"output_dir" json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	// Tools maps source tool names to target names. An empty target drops the tool.
	Tools map[string]string `mapstructure:"tools" json:"tools,omitempty" yaml:"tools,omitempty"`
	// Models maps model aliases to target models
	Models map[string]string `mapstructure:"models" json:"models,omitempty" yaml:"models,omitempty"`
	// SlashCommands maps slash commands to their replacement text
	SlashCommands map[string]string `mapstructure:"slash_commands" json:"slash_commands,omitempty" yaml:"slash_commands,omitempty"`
	// PrimarySkills lists skills converted as primary agents. OpenCode only.
	PrimarySkills []string `mapstructure:"primary_skills" json:"primary_skills,omitempty" yaml:"primary_skills,omitempty"`
}

// Apply returns d with the overrides merged in. Map overrides are applied in
// key order so the result does not depend on map iteration.
func (o Overrides) Apply(d *transcode.Dialect) (*transcode.Dialect, error) {
	for _, source := range sortedKeys(o.Tools) {
		d.Tools = d.Tools.With(source, o.Tools[source])
	}

	for _, alias := range sortedKeys(o.Models) {
		d.Models = d.Models.With(alias, o.Models[alias])
	}

	for _, command := range sortedKeys(o.SlashCommands) {
		name := command
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		d.Rules.Slash = d.Rules.Slash.With(name, o.SlashCommands[command])
	}
	if err := d.Rules.Slash.Validate(); err != nil {
		return nil, err
	}

	if o.OutputDir != "" {
		dirs := make(map[frontmatter.Kind]string, len(d.OutputDirs))
		for kind := range d.OutputDirs {
			dirs[kind] = o.OutputDir
		}
		d.OutputDirs = dirs
	}

	return d, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

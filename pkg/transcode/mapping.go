package transcode

import "strings"

// ToolEntry maps one source tool name to its target equivalent. An empty
// Target means the target dialect has no equivalent and the tool is dropped.
type ToolEntry struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// ToolMapping is an ordered source→target tool table. Order decides the order
// of allow-list fields and of backtick rewrites.
type ToolMapping []ToolEntry

// Lookup returns the target tool for a source name. ok is false for unknown
// tools and for tools without a target equivalent.
func (m ToolMapping) Lookup(source string) (string, bool) {
	if i := m.index(source); i >= 0 {
		return m[i].Target, m[i].Target != ""
	}
	return "", false
}

// Known reports whether the source tool appears in the table at all
func (m ToolMapping) Known(source string) bool {
	return m.index(source) >= 0
}

// index finds source, preferring an exact match over a case-insensitive one.
// Entries added from configuration may arrive lower-cased.
func (m ToolMapping) index(source string) int {
	fold := -1
	for i, e := range m {
		if e.Source == source {
			return i
		}
		if fold < 0 && strings.EqualFold(e.Source, source) {
			fold = i
		}
	}
	return fold
}

// Targets returns the distinct non-empty target names in table order
func (m ToolMapping) Targets() []string {
	seen := make(map[string]bool, len(m))
	targets := make([]string, 0, len(m))
	for _, e := range m {
		if e.Target == "" || seen[e.Target] {
			continue
		}
		seen[e.Target] = true
		targets = append(targets, e.Target)
	}
	return targets
}

// With returns a copy of the table with source mapped to target. Existing
// entries, matched as in Lookup, are replaced in place and keep their
// spelling; new ones are appended.
func (m ToolMapping) With(source, target string) ToolMapping {
	out := make(ToolMapping, len(m), len(m)+1)
	copy(out, m)
	if i := out.index(source); i >= 0 {
		out[i].Target = target
		return out
	}
	return append(out, ToolEntry{Source: source, Target: target})
}

// ModelMapping maps lower-case model aliases to target model identifiers
type ModelMapping map[string]string

// Resolve maps a source model name. Lookup is case-insensitive and ignores
// surrounding whitespace; unknown names are returned unchanged so newer model
// names survive conversion.
func (m ModelMapping) Resolve(model string) string {
	if mapped, ok := m[strings.ToLower(strings.TrimSpace(model))]; ok {
		return mapped
	}
	return model
}

// With returns a copy of the table with alias mapped to target
func (m ModelMapping) With(alias, target string) ModelMapping {
	out := make(ModelMapping, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[strings.ToLower(strings.TrimSpace(alias))] = target
	return out
}

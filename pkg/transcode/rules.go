package transcode

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// SlashRule replaces every literal occurrence of a slash command
type SlashRule struct {
	Command     string `json:"command" yaml:"command"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// SlashRules is applied in order. A command must come before any shorter
// command that is a prefix of it, otherwise "/create_plan" would rewrite the
// front of "/create_plan_interactively".
type SlashRules []SlashRule

// Validate reports the first pair of rules that violates prefix ordering
func (r SlashRules) Validate() error {
	for i, earlier := range r {
		for _, later := range r[i+1:] {
			if later.Command != earlier.Command && strings.HasPrefix(later.Command, earlier.Command) {
				return errors.Errorf("slash command %q must be listed before %q", later.Command, earlier.Command)
			}
		}
	}
	return nil
}

// With returns a copy of the rules containing command. An existing rule for
// the same command keeps its position; a new rule is placed before the first
// rule whose command is a prefix of it.
func (r SlashRules) With(command, replacement string) SlashRules {
	for i, rule := range r {
		if rule.Command == command {
			out := make(SlashRules, len(r))
			copy(out, r)
			out[i].Replacement = replacement
			return out
		}
	}

	out := make(SlashRules, 0, len(r)+1)
	inserted := false
	for _, rule := range r {
		if !inserted && strings.HasPrefix(command, rule.Command) {
			out = append(out, SlashRule{Command: command, Replacement: replacement})
			inserted = true
		}
		out = append(out, rule)
	}
	if !inserted {
		out = append(out, SlashRule{Command: command, Replacement: replacement})
	}
	return out
}

// PhraseRule is a best-effort rewrite of loose wording. Patterns are matched
// case-insensitively anywhere in a line and may produce awkward text on odd
// input; they are not a precise transform.
type PhraseRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// NewPhraseRule compiles pattern case-insensitively
func NewPhraseRule(pattern, replacement string) PhraseRule {
	return PhraseRule{
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		Replacement: replacement,
	}
}

// TextRules rewrites references inside a definition body
type TextRules struct {
	Slash   SlashRules
	Phrases []PhraseRule
}

// Apply rewrites body: slash commands first, then backtick-quoted tool names
// from tools, then phrase rules
func (r TextRules) Apply(body string, tools ToolMapping) string {
	result := body

	for _, rule := range r.Slash {
		result = strings.ReplaceAll(result, rule.Command, rule.Replacement)
	}

	result = ReplaceToolMentions(result, tools)

	for _, rule := range r.Phrases {
		result = rule.Pattern.ReplaceAllLiteralString(result, rule.Replacement)
	}

	return result
}

// ReplaceToolMentions rewrites `Source` to `target` for every tool with a
// target equivalent. Bare mentions without backticks are left alone.
func ReplaceToolMentions(body string, tools ToolMapping) string {
	for _, e := range tools {
		if e.Target == "" {
			continue
		}
		body = strings.ReplaceAll(body, "`"+e.Source+"`", "`"+e.Target+"`")
	}
	return body
}

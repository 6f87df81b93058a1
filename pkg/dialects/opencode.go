package dialects

import (
	"fmt"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

const (
	openCodeModeSubagent = "subagent"
	openCodeModePrimary  = "primary"
)

// defaultPrimarySkills are skills that run as OpenCode primary agents instead of subagents
var defaultPrimarySkills = []string{"mega_ralph"}

func openCodeTools() transcode.ToolMapping {
	return transcode.ToolMapping{
		{Source: "Read", Target: "read"},
		{Source: "Write", Target: "write"},
		{Source: "Edit", Target: "edit"},
		{Source: "Bash", Target: "bash"},
		{Source: "Grep", Target: "grep"},
		{Source: "Glob", Target: "glob"},
		{Source: "LS", Target: "list"},
		{Source: "WebSearch", Target: "websearch"},
		{Source: "WebFetch", Target: "webfetch"},
		{Source: "Task", Target: "task"},
		{Source: "TodoWrite", Target: "todowrite"},
		{Source: "TodoRead", Target: "todoread"},
	}
}

func openCodeModels() transcode.ModelMapping {
	return transcode.ModelMapping{
		"sonnet":        "anthropic/claude-sonnet-4-20250514",
		"claude-sonnet": "anthropic/claude-sonnet-4-20250514",
		"haiku":         "anthropic/claude-haiku-4-20250514",
		"claude-haiku":  "anthropic/claude-haiku-4-20250514",
		"opus":          "anthropic/claude-opus-4-20250514",
		"claude-opus":   "anthropic/claude-opus-4-20250514",
	}
}

// openCodeSlashCommands turns slash commands into @mentions of the converted agents
func openCodeSlashCommands() transcode.SlashRules {
	commands := []string{
		"create_plan_interactively",
		"research_codebase",
		"implement_plan",
		"validate_plan",
		"resume_handoff",
		"create_handoff",
		"create_plan",
		"mega_ralph",
		"describe_pr",
		"commit",
	}

	rules := make(transcode.SlashRules, 0, len(commands))
	for _, c := range commands {
		rules = append(rules, transcode.SlashRule{Command: "/" + c, Replacement: "@" + c})
	}
	return rules
}

// OpenCode builds the OpenCode dialect: markdown with a boolean tools
// allow-list. Skills become agents with every tool enabled.
func OpenCode(o Overrides) *transcode.Dialect {
	primary := defaultPrimarySkills
	if o.PrimarySkills != nil {
		primary = o.PrimarySkills
	}

	return &transcode.Dialect{
		Name:        "opencode",
		Title:       "OpenCode",
		Format:      transcode.FormatMarkdown,
		Tools:       openCodeTools(),
		Models:      openCodeModels(),
		Rules:       transcode.TextRules{Slash: openCodeSlashCommands()},
		AgentShape:  transcode.ShapeAllowList,
		DefaultType: TypeAgents,
		OutputDirs: map[frontmatter.Kind]string{
			frontmatter.KindAgent: ".opencode/agents",
			frontmatter.KindSkill: ".opencode/agents",
		},
		Layout:     transcode.FlatLayout(".md"),
		Serializer: &openCodeSerializer{primary: toSet(primary)},
	}
}

type openCodeSerializer struct {
	primary map[string]bool
}

func (s *openCodeSerializer) Serialize(doc *transcode.Document) ([]byte, error) {
	var fields []transcode.HeaderField

	if description, ok := doc.Field("description"); ok {
		fields = append(fields, transcode.Scalar("description", description))
	}
	fields = append(fields, transcode.Scalar("mode", s.mode(doc)))

	if doc.Kind == frontmatter.KindAgent && doc.Model != "" {
		fields = append(fields, transcode.Scalar("model", doc.Model))
	}

	if lines := openCodeToolLines(doc.Grants); len(lines) > 0 {
		fields = append(fields, transcode.Nested("tools", lines...))
	}

	return transcode.RenderMarkdown(fields, doc.Body), nil
}

func (s *openCodeSerializer) mode(doc *transcode.Document) string {
	if doc.Kind != frontmatter.KindSkill {
		return openCodeModeSubagent
	}
	if name, _ := doc.Field("name"); s.primary[name] {
		return openCodeModePrimary
	}
	return openCodeModeSubagent
}

func openCodeToolLines(grants transcode.Grants) []string {
	var lines []string
	switch g := grants.(type) {
	case transcode.AllowList:
		for _, grant := range g.Grants {
			lines = append(lines, fmt.Sprintf("%s: %t", grant.Tool, grant.Allowed))
		}
	case transcode.ToolSet:
		for _, tool := range g.Tools {
			lines = append(lines, tool+": true")
		}
	case transcode.FullAccess:
		for _, tool := range g.Tools {
			lines = append(lines, tool+": true")
		}
	}
	return lines
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

package dialects

import (
	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

func geminiTools() transcode.ToolMapping {
	return transcode.ToolMapping{
		{Source: "Read", Target: "read_file"},
		{Source: "Write", Target: "write_file"},
		{Source: "Edit", Target: "replace"},
		{Source: "Bash", Target: "run_shell_command"},
		{Source: "Grep", Target: "search_file_content"},
		{Source: "Glob", Target: "glob"},
		{Source: "LS", Target: "list_directory"},
		{Source: "WebSearch", Target: "google_web_search"},
		{Source: "WebFetch", Target: "web_fetch"},
		{Source: "Task", Target: "activate_skill"},
	}
}

func geminiModels() transcode.ModelMapping {
	return transcode.ModelMapping{
		"sonnet":        "gemini-2.5-pro",
		"claude-sonnet": "gemini-2.5-pro",
		"haiku":         "gemini-2.0-flash",
		"claude-haiku":  "gemini-2.0-flash",
		"opus":          "gemini-1.5-pro",
		"claude-opus":   "gemini-3-pro",
	}
}

// Gemini builds the Gemini CLI dialect. Agent tools are a YAML list; skills
// carry only name and description and keep their <name>/SKILL.md layout.
func Gemini(Overrides) *transcode.Dialect {
	return &transcode.Dialect{
		Name:        "gemini",
		Title:       "Gemini CLI",
		Format:      transcode.FormatMarkdown,
		Tools:       geminiTools(),
		Models:      geminiModels(),
		AgentShape:  transcode.ShapeSet,
		DefaultType: TypeAgents,
		OutputDirs: map[frontmatter.Kind]string{
			frontmatter.KindAgent: ".gemini/agents",
			frontmatter.KindSkill: ".gemini/skills",
		},
		Layout:     transcode.SkillDirLayout(".md"),
		Serializer: transcode.SerializerFunc(serializeGemini),
	}
}

func serializeGemini(doc *transcode.Document) ([]byte, error) {
	name, ok := doc.Field("name")
	if !ok {
		name = doc.Name
	}

	fields := []transcode.HeaderField{transcode.Scalar("name", name)}
	if description, ok := doc.Field("description"); ok {
		fields = append(fields, transcode.Scalar("description", description))
	}

	if doc.Kind == frontmatter.KindAgent {
		if set, ok := doc.Grants.(transcode.ToolSet); ok && len(set.Tools) > 0 {
			lines := make([]string, 0, len(set.Tools))
			for _, tool := range set.Tools {
				lines = append(lines, "- "+tool)
			}
			fields = append(fields, transcode.Nested("tools", lines...))
		}
		if doc.Model != "" {
			fields = append(fields, transcode.Scalar("model", doc.Model))
		}
	}

	return transcode.RenderMarkdown(fields, doc.Body), nil
}

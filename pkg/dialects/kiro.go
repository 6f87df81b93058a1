package dialects

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

// kiroAllowedTools are trusted without a confirmation prompt
var kiroAllowedTools = []string{"fs_read"}

func kiroTools() transcode.ToolMapping {
	return transcode.ToolMapping{
		{Source: "Read", Target: "fs_read"},
		{Source: "Write", Target: "fs_write"},
		{Source: "Edit", Target: "fs_write"},
		{Source: "Bash", Target: "execute_bash"},
		{Source: "Grep", Target: "fs_read"},
		{Source: "Glob", Target: "fs_read"},
		{Source: "LS", Target: "fs_read"},
		{Source: "WebSearch", Target: "web_search"},
		{Source: "WebFetch", Target: "web_fetch"},
		{Source: "Task", Target: ""},
		{Source: "TodoWrite", Target: "todo_list"},
		{Source: "TodoRead", Target: "todo_list"},
	}
}

func kiroModels() transcode.ModelMapping {
	return transcode.ModelMapping{
		"sonnet":        "claude-sonnet-4",
		"claude-sonnet": "claude-sonnet-4",
		"haiku":         "claude-haiku-4",
		"claude-haiku":  "claude-haiku-4",
		"opus":          "claude-opus-4",
		"claude-opus":   "claude-opus-4",
	}
}

// Kiro has no slash commands, so they are spelled out as instructions
func kiroSlashCommands() transcode.SlashRules {
	return transcode.SlashRules{
		{Command: "/create_plan_interactively", Replacement: "create a plan interactively"},
		{Command: "/research_codebase", Replacement: "research the codebase"},
		{Command: "/implement_plan", Replacement: "implement the plan"},
		{Command: "/validate_plan", Replacement: "validate the plan"},
		{Command: "/resume_handoff", Replacement: "resume from a handoff"},
		{Command: "/create_handoff", Replacement: "create a handoff"},
		{Command: "/create_plan", Replacement: "create a plan"},
		{Command: "/mega_ralph", Replacement: "use the mega_ralph workflow"},
	}
}

// kiroPhrases soften instructions to start sub-agents, which Kiro cannot do.
// Best effort only.
func kiroPhrases() []transcode.PhraseRule {
	return []transcode.PhraseRule{
		transcode.NewPhraseRule(`spawn.*?task.*?agent`, "consider researching"),
		transcode.NewPhraseRule(`create.*?task.*?agent`, "research"),
	}
}

// Kiro builds the Kiro CLI dialect: one JSON agent document per definition
func Kiro(Overrides) *transcode.Dialect {
	return &transcode.Dialect{
		Name:   "kiro",
		Title:  "Kiro CLI",
		Format: transcode.FormatJSON,
		Tools:  kiroTools(),
		Models: kiroModels(),
		Rules: transcode.TextRules{
			Slash:   kiroSlashCommands(),
			Phrases: kiroPhrases(),
		},
		AgentShape:  transcode.ShapeSet,
		DefaultType: TypeAll,
		OutputDirs: map[frontmatter.Kind]string{
			frontmatter.KindAgent: ".kiro/agents",
			frontmatter.KindSkill: ".kiro/agents",
		},
		Layout:     transcode.FlatLayout(".json"),
		Serializer: transcode.SerializerFunc(serializeKiro),
	}
}

type kiroAgent struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Prompt       string   `json:"prompt"`
	Tools        []string `json:"tools"`
	AllowedTools []string `json:"allowedTools"`
	Model        string   `json:"model,omitempty"`
}

func serializeKiro(doc *transcode.Document) ([]byte, error) {
	description, _ := doc.Field("description")
	agent := kiroAgent{
		Name:         doc.Name,
		Description:  description,
		Prompt:       doc.Body,
		Tools:        kiroToolList(doc.Grants),
		AllowedTools: kiroAllowedTools,
		Model:        doc.Model,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(agent); err != nil {
		return nil, errors.Wrap(err, "failed to encode kiro agent")
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func kiroToolList(grants transcode.Grants) []string {
	var tools []string
	switch g := grants.(type) {
	case transcode.ToolSet:
		tools = g.Tools
	case transcode.FullAccess:
		tools = g.Tools
	case transcode.AllowList:
		tools = g.Allowed()
	}
	if tools == nil {
		return []string{}
	}
	return tools
}

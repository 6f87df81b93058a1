package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/theTyster/context-focused-claude/pkg/dialects"
	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

// DialectOutputFormat selects how dialect tables are printed
type DialectOutputFormat string

const (
	DialectTableFormat DialectOutputFormat = "table"
	DialectJSONFormat  DialectOutputFormat = "json"
	DialectYAMLFormat  DialectOutputFormat = "yaml"
)

// DialectOutput is the printable form of a dialect's mapping tables
type DialectOutput struct {
	Name          string                `json:"name" yaml:"name"`
	Title         string                `json:"title" yaml:"title"`
	Format        string                `json:"format" yaml:"format"`
	DefaultType   string                `json:"defaultType" yaml:"defaultType"`
	AgentTools    string                `json:"agentTools" yaml:"agentTools"`
	AgentsDir     string                `json:"agentsDir" yaml:"agentsDir"`
	SkillsDir     string                `json:"skillsDir" yaml:"skillsDir"`
	Tools         []transcode.ToolEntry `json:"tools" yaml:"tools"`
	Models        []ModelOutput         `json:"models" yaml:"models"`
	SlashCommands []transcode.SlashRule `json:"slashCommands,omitempty" yaml:"slashCommands,omitempty"`
	Phrases       []PhraseOutput        `json:"phrases,omitempty" yaml:"phrases,omitempty"`
}

// ModelOutput is one model alias
type ModelOutput struct {
	Alias  string `json:"alias" yaml:"alias"`
	Target string `json:"target" yaml:"target"`
}

// PhraseOutput is one best-effort phrase rewrite
type PhraseOutput struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// NewDialectOutput flattens d into its printable form
func NewDialectOutput(d *transcode.Dialect) *DialectOutput {
	out := &DialectOutput{
		Name:          d.Name,
		Title:         d.Title,
		Format:        string(d.Format),
		DefaultType:   d.DefaultType,
		AgentTools:    d.AgentShape.String(),
		AgentsDir:     d.DefaultOutputDir(frontmatter.KindAgent),
		SkillsDir:     d.DefaultOutputDir(frontmatter.KindSkill),
		Tools:         d.Tools,
		SlashCommands: d.Rules.Slash,
	}

	aliases := make([]string, 0, len(d.Models))
	for alias := range d.Models {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		out.Models = append(out.Models, ModelOutput{Alias: alias, Target: d.Models[alias]})
	}

	for _, p := range d.Rules.Phrases {
		out.Phrases = append(out.Phrases, PhraseOutput{Pattern: p.Pattern.String(), Replacement: p.Replacement})
	}

	return out
}

// Render writes the dialect in the given format
func (o *DialectOutput) Render(w io.Writer, format DialectOutputFormat) error {
	switch format {
	case DialectJSONFormat:
		data, err := json.MarshalIndent(o, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error generating JSON output")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case DialectYAMLFormat:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(o); err != nil {
			return errors.Wrap(err, "error generating YAML output")
		}
		return enc.Close()
	case DialectTableFormat:
		return o.renderTable(w)
	default:
		return errors.Errorf("unknown output format %q: must be table, json or yaml", format)
	}
}

func (o *DialectOutput) renderTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s (%s)\n", o.Title, o.Name)
	fmt.Fprintf(tw, "Format:\t%s\n", o.Format)
	fmt.Fprintf(tw, "Default type:\t%s\n", o.DefaultType)
	fmt.Fprintf(tw, "Agent tools:\t%s\n", o.AgentTools)
	fmt.Fprintf(tw, "Agents dir:\t%s\n", o.AgentsDir)
	fmt.Fprintf(tw, "Skills dir:\t%s\n", o.SkillsDir)

	fmt.Fprintln(tw, "\nSource Tool\tTarget Tool")
	fmt.Fprintln(tw, "-----------\t-----------")
	for _, t := range o.Tools {
		target := t.Target
		if target == "" {
			target = "(dropped)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", t.Source, target)
	}

	fmt.Fprintln(tw, "\nModel Alias\tTarget Model")
	fmt.Fprintln(tw, "-----------\t------------")
	for _, m := range o.Models {
		fmt.Fprintf(tw, "%s\t%s\n", m.Alias, m.Target)
	}

	if len(o.SlashCommands) > 0 {
		fmt.Fprintln(tw, "\nSlash Command\tReplacement")
		fmt.Fprintln(tw, "-------------\t-----------")
		for _, s := range o.SlashCommands {
			fmt.Fprintf(tw, "%s\t%s\n", s.Command, s.Replacement)
		}
	}

	if len(o.Phrases) > 0 {
		fmt.Fprintln(tw, "\nPhrase Pattern\tReplacement")
		fmt.Fprintln(tw, "--------------\t-----------")
		for _, p := range o.Phrases {
			fmt.Fprintf(tw, "%s\t%s\n", p.Pattern, p.Replacement)
		}
	}

	return tw.Flush()
}

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List the supported target dialects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return renderDialectList(os.Stdout, dialects.All())
	},
}

var dialectsShowCmd = &cobra.Command{
	Use:   "show <dialect>",
	Short: "Show a dialect's tool, model and slash command tables",
	Long: `Show the mapping tables a dialect converts with, including any overrides
from the configuration file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := dialects.Get(args[0], cfg.DialectOverrides(args[0]))
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("output")
		return NewDialectOutput(d).Render(os.Stdout, DialectOutputFormat(format))
	},
}

func init() {
	dialectsCmd.AddCommand(dialectsShowCmd)
	dialectsShowCmd.Flags().StringP("output", "o", string(DialectTableFormat), "Output format: table, json or yaml")
}

func renderDialectList(w io.Writer, all []*transcode.Dialect) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tTarget\tFormat\tDefault Type\tOutput")
	fmt.Fprintln(tw, "----\t------\t------\t------------\t------")
	for _, d := range all {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Title, d.Format, d.DefaultType, strings.Join(defaultOutputDirs(d), ", "))
	}
	return tw.Flush()
}

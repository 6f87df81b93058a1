package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theTyster/context-focused-claude/pkg/config"
	"github.com/theTyster/context-focused-claude/pkg/converter"
	"github.com/theTyster/context-focused-claude/pkg/dialects"
	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/logger"
	"github.com/theTyster/context-focused-claude/pkg/presenter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

// ConvertConfig holds the settings of one conversion run
type ConvertConfig struct {
	Type      string // empty selects the dialect's default
	AgentsDir string
	SkillsDir string
	InputDir  string // overrides both AgentsDir and SkillsDir
	OutputDir string // empty selects the dialect's default per kind
	Exclude   []string
	DryRun    bool
	Diff      bool
	Verify    bool
}

// NewConvertConfig creates a ConvertConfig with default values
func NewConvertConfig() *ConvertConfig {
	return &ConvertConfig{
		AgentsDir: config.DefaultAgentsDir,
		SkillsDir: config.DefaultSkillsDir,
	}
}

// Targets resolves the kinds to convert and their directories for d
func (c *ConvertConfig) Targets(d *transcode.Dialect) ([]converter.Target, error) {
	conversionType := c.Type
	if conversionType == "" {
		conversionType = d.DefaultType
	}

	kinds, err := dialects.Kinds(conversionType)
	if err != nil {
		return nil, err
	}

	targets := make([]converter.Target, 0, len(kinds))
	for _, kind := range kinds {
		t := converter.Target{
			Kind:      kind,
			InputDir:  c.AgentsDir,
			OutputDir: c.OutputDir,
		}
		if kind == frontmatter.KindSkill {
			t.InputDir = c.SkillsDir
		}
		if c.InputDir != "" {
			t.InputDir = c.InputDir
		}
		if t.OutputDir == "" {
			t.OutputDir = d.DefaultOutputDir(kind)
		}
		targets = append(targets, t)
	}

	return targets, nil
}

func newConvertCmd(name string) *cobra.Command {
	d, _ := dialects.Get(name, dialects.Overrides{})

	cmd := &cobra.Command{
		Use:   name + " [input-dir] [output-dir]",
		Short: fmt.Sprintf("Convert agents and skills to %s", d.Title),
		Long: fmt.Sprintf(`Convert Claude Code agents and skills to %s.

By default agents are read from ./agents and skills from ./skills. A positional
input directory replaces both. Output goes to %s unless an output directory is
given. The default --type is %q.`, d.Title, strings.Join(defaultOutputDirs(d), " and "), d.DefaultType),
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			_, err = runConvert(cmd.Context(), name, cfg, getConvertConfigFromFlags(cmd, cfg, args))
			return err
		},
	}

	addConvertFlags(cmd.Flags())
	return cmd
}

func addConvertFlags(flags *pflag.FlagSet) {
	flags.StringP("type", "t", "", "What to convert: agents, skills or all (default depends on the target)")
	flags.String("agents-dir", config.DefaultAgentsDir, "Directory of agent definitions")
	flags.String("skills-dir", config.DefaultSkillsDir, "Directory of skill directories")
	flags.StringP("output", "o", "", "Output directory")
	flags.StringSlice("exclude", nil, "Skip definitions matching these glob patterns")
	flags.Bool("dry-run", false, "Convert without writing any files")
	flags.Bool("diff", false, "With --dry-run, show a diff against the existing output")
	flags.Bool("verify", false, "Check every rendered document parses before writing it")
}

// getConvertConfigFromFlags layers configuration, then changed flags, then
// positional arguments
func getConvertConfigFromFlags(cmd *cobra.Command, cfg *config.Config, args []string) *ConvertConfig {
	c := NewConvertConfig()

	if cfg != nil {
		c.Type = cfg.Type
		if cfg.AgentsDir != "" {
			c.AgentsDir = cfg.AgentsDir
		}
		if cfg.SkillsDir != "" {
			c.SkillsDir = cfg.SkillsDir
		}
		c.OutputDir = cfg.OutputDir
		c.Exclude = cfg.Exclude
		c.Verify = cfg.Verify
	}

	flags := cmd.Flags()
	if flags.Changed("type") {
		c.Type, _ = flags.GetString("type")
	}
	if flags.Changed("agents-dir") {
		c.AgentsDir, _ = flags.GetString("agents-dir")
	}
	if flags.Changed("skills-dir") {
		c.SkillsDir, _ = flags.GetString("skills-dir")
	}
	if flags.Changed("output") {
		c.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("exclude") {
		c.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("verify") {
		c.Verify, _ = flags.GetBool("verify")
	}
	c.DryRun, _ = flags.GetBool("dry-run")
	c.Diff, _ = flags.GetBool("diff")

	if len(args) > 0 {
		c.InputDir = args[0]
	}
	if len(args) > 1 {
		c.OutputDir = args[1]
	}

	return c
}

// prepareRun builds the dialect, runner and targets for a conversion
func prepareRun(name string, cfg *config.Config, c *ConvertConfig) (*converter.Runner, []converter.Target, error) {
	d, err := dialects.Get(name, cfg.DialectOverrides(name))
	if err != nil {
		return nil, nil, err
	}

	targets, err := c.Targets(d)
	if err != nil {
		return nil, nil, err
	}

	runner, err := converter.NewRunner(d,
		converter.WithExclude(c.Exclude...),
		converter.WithDryRun(c.DryRun),
		converter.WithDiff(c.Diff),
		converter.WithVerify(c.Verify),
	)
	if err != nil {
		return nil, nil, err
	}

	return runner, targets, nil
}

// runConvert converts every target. Per-file failures are reported in the
// summary and do not fail the run.
func runConvert(ctx context.Context, name string, cfg *config.Config, c *ConvertConfig) (*converter.Report, error) {
	runner, targets, err := prepareRun(name, cfg, c)
	if err != nil {
		return nil, err
	}
	d := runner.Dialect()
	ctx = logger.WithLogger(ctx, logger.G(ctx).WithField("dialect", d.Name))

	presenter.Section(fmt.Sprintf("Claude Code to %s Converter", d.Title))
	for _, t := range targets {
		presenter.Info(fmt.Sprintf("%s: %s -> %s", t.Kind, t.InputDir, t.OutputDir))
	}
	if c.DryRun {
		presenter.Info("Dry run: no files will be written")
	}

	report, err := runner.Run(ctx, targets)
	if err != nil {
		return report, err
	}

	presenter.Separator()
	presenter.Summary(report.Succeeded, report.Failed)
	return report, nil
}

func defaultOutputDirs(d *transcode.Dialect) []string {
	agents := d.DefaultOutputDir(frontmatter.KindAgent)
	skills := d.DefaultOutputDir(frontmatter.KindSkill)
	if agents == skills {
		return []string{agents}
	}
	return []string{agents, skills}
}

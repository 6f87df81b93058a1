package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theTyster/context-focused-claude/pkg/config"
	"github.com/theTyster/context-focused-claude/pkg/converter"
	"github.com/theTyster/context-focused-claude/pkg/dialects"
	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/presenter"
)

func quietPresenter(t *testing.T) {
	t.Helper()
	presenter.SetQuiet(true)
	t.Cleanup(func() { presenter.SetQuiet(false) })
}

func writeDefinition(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvertConfigTargets(t *testing.T) {
	gemini, err := dialects.Get("gemini", dialects.Overrides{})
	require.NoError(t, err)
	kiro, err := dialects.Get("kiro", dialects.Overrides{})
	require.NoError(t, err)

	t.Run("dialect default type", func(t *testing.T) {
		targets, err := NewConvertConfig().Targets(kiro)
		require.NoError(t, err)
		assert.Equal(t, []converter.Target{
			{Kind: frontmatter.KindAgent, InputDir: "./agents", OutputDir: ".kiro/agents"},
			{Kind: frontmatter.KindSkill, InputDir: "./skills", OutputDir: ".kiro/agents"},
		}, targets)
	})

	t.Run("skills use skill output dir", func(t *testing.T) {
		c := NewConvertConfig()
		c.Type = dialects.TypeSkills
		targets, err := c.Targets(gemini)
		require.NoError(t, err)
		assert.Equal(t, []converter.Target{
			{Kind: frontmatter.KindSkill, InputDir: "./skills", OutputDir: ".gemini/skills"},
		}, targets)
	})

	t.Run("positional input and output apply to every kind", func(t *testing.T) {
		c := NewConvertConfig()
		c.Type = dialects.TypeAll
		c.InputDir = "defs"
		c.OutputDir = "out"
		targets, err := c.Targets(gemini)
		require.NoError(t, err)
		for _, target := range targets {
			assert.Equal(t, "defs", target.InputDir)
			assert.Equal(t, "out", target.OutputDir)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		c := NewConvertConfig()
		c.Type = "commands"
		_, err := c.Targets(gemini)
		assert.ErrorContains(t, err, `invalid type "commands"`)
	})
}

func TestGetConvertConfigFromFlags(t *testing.T) {
	cfg := &config.Config{
		Type:      dialects.TypeSkills,
		AgentsDir: "cfg-agents",
		SkillsDir: "cfg-skills",
		OutputDir: "cfg-out",
		Exclude:   []string{"draft-*"},
		Verify:    true,
	}

	t.Run("configuration only", func(t *testing.T) {
		cmd := newConvertCmd("opencode")
		require.NoError(t, cmd.ParseFlags(nil))

		c := getConvertConfigFromFlags(cmd, cfg, nil)
		assert.Equal(t, dialects.TypeSkills, c.Type)
		assert.Equal(t, "cfg-agents", c.AgentsDir)
		assert.Equal(t, "cfg-skills", c.SkillsDir)
		assert.Equal(t, "cfg-out", c.OutputDir)
		assert.Equal(t, []string{"draft-*"}, c.Exclude)
		assert.True(t, c.Verify)
	})

	t.Run("flags override configuration", func(t *testing.T) {
		cmd := newConvertCmd("opencode")
		require.NoError(t, cmd.ParseFlags([]string{
			"--type=agents", "--agents-dir=a", "-o", "o", "--exclude=x,y", "--verify=false", "--dry-run", "--diff",
		}))

		c := getConvertConfigFromFlags(cmd, cfg, nil)
		assert.Equal(t, dialects.TypeAgents, c.Type)
		assert.Equal(t, "a", c.AgentsDir)
		assert.Equal(t, "cfg-skills", c.SkillsDir)
		assert.Equal(t, "o", c.OutputDir)
		assert.Equal(t, []string{"x", "y"}, c.Exclude)
		assert.False(t, c.Verify)
		assert.True(t, c.DryRun)
		assert.True(t, c.Diff)
	})

	t.Run("positionals override flags", func(t *testing.T) {
		cmd := newConvertCmd("opencode")
		require.NoError(t, cmd.ParseFlags([]string{"-o", "flag-out"}))

		c := getConvertConfigFromFlags(cmd, cfg, []string{"in", "pos-out"})
		assert.Equal(t, "in", c.InputDir)
		assert.Equal(t, "pos-out", c.OutputDir)
	})
}

func TestRunConvertKiroAll(t *testing.T) {
	quietPresenter(t)

	root := t.TempDir()
	writeDefinition(t, filepath.Join(root, "agents", "reviewer.md"), "---\ndescription: Reviews\ntools: Read\n---\n\nReview.\n")
	writeDefinition(t, filepath.Join(root, "agents", "broken.md"), "no header\n")
	writeDefinition(t, filepath.Join(root, "skills", "commit", "SKILL.md"), "---\ndescription: Commits\n---\n\nCommit.\n")

	c := NewConvertConfig()
	c.AgentsDir = filepath.Join(root, "agents")
	c.SkillsDir = filepath.Join(root, "skills")
	c.OutputDir = filepath.Join(root, "out")

	report, err := runConvert(context.Background(), "kiro", &config.Config{}, c)
	require.NoError(t, err, "per-file failures do not fail the run")

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.FileExists(t, filepath.Join(root, "out", "reviewer.json"))
	assert.FileExists(t, filepath.Join(root, "out", "commit.json"))
	assert.NoFileExists(t, filepath.Join(root, "out", "broken.json"))
}

func TestRunConvertAppliesDialectOverrides(t *testing.T) {
	quietPresenter(t)

	root := t.TempDir()
	writeDefinition(t, filepath.Join(root, "agents", "a.md"), "---\nmodel: sonnet\n---\n\nBody\n")

	cfg := &config.Config{Dialects: map[string]dialects.Overrides{
		"gemini": {OutputDir: filepath.Join(root, "configured"), Models: map[string]string{"sonnet": "gemini-exp"}},
	}}

	c := NewConvertConfig()
	c.AgentsDir = filepath.Join(root, "agents")

	_, err := runConvert(context.Background(), "gemini", cfg, c)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "configured", "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "model: gemini-exp\n")
}

func TestRunConvertFatalErrors(t *testing.T) {
	quietPresenter(t)
	root := t.TempDir()

	t.Run("missing input directory", func(t *testing.T) {
		c := NewConvertConfig()
		c.AgentsDir = filepath.Join(root, "nope")
		_, err := runConvert(context.Background(), "opencode", &config.Config{}, c)
		assert.True(t, errors.Is(err, converter.ErrMissingInputDirectory))
	})

	t.Run("invalid type", func(t *testing.T) {
		c := NewConvertConfig()
		c.Type = "everything"
		_, err := runConvert(context.Background(), "opencode", &config.Config{}, c)
		assert.ErrorContains(t, err, "invalid type")
	})

	t.Run("unknown dialect", func(t *testing.T) {
		_, err := runConvert(context.Background(), "cursor", &config.Config{}, NewConvertConfig())
		assert.True(t, errors.Is(err, dialects.ErrUnknownDialect))
	})
}

func TestConvertCommandsRegistered(t *testing.T) {
	for _, name := range dialects.Names() {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

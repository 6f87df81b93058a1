package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theTyster/context-focused-claude/pkg/dialects"
	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
	"github.com/theTyster/context-focused-claude/pkg/transcode"
)

const sampleConfig = `
log_level: info
exclude:
  - "draft-*"
dialects:
  opencode:
    primary_skills: [mega_ralph, commit]
    tools:
      Read: view
  kiro:
    output_dir: build/kiro
    models:
      sonnet: claude-sonnet-4.5
profiles:
  default:
    log_level: error
  ci:
    log_level: debug
    log_format: json
    verify: "true"
    dialects:
      gemini:
        output_dir: dist/gemini
`

func newViper(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return v
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultAgentsDir, cfg.AgentsDir)
	assert.Equal(t, DefaultSkillsDir, cfg.SkillsDir)
	assert.Empty(t, cfg.Type)
	assert.False(t, cfg.Verify)
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := Load(newViper(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"draft-*"}, cfg.Exclude)
	assert.NotContains(t, cfg.Profiles, "default")

	opencode := cfg.DialectOverrides("OpenCode")
	assert.Equal(t, []string{"mega_ralph", "commit"}, opencode.PrimarySkills)
	assert.Equal(t, "view", opencode.Tools["read"], "viper lower-cases keys")

	kiro := cfg.DialectOverrides("kiro")
	assert.Equal(t, "build/kiro", kiro.OutputDir)
	assert.Equal(t, "claude-sonnet-4.5", kiro.Models["sonnet"])

	assert.Empty(t, cfg.DialectOverrides("gemini").OutputDir)
}

func TestLoadProfile(t *testing.T) {
	v := newViper(t, sampleConfig)
	v.Set("profile", "ci")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Verify, "weakly typed input accepts string booleans")
	assert.Equal(t, []string{"draft-*"}, cfg.Exclude, "unset profile keys keep base values")
	assert.Equal(t, "dist/gemini", cfg.DialectOverrides("gemini").OutputDir)
	assert.Equal(t, "build/kiro", cfg.DialectOverrides("kiro").OutputDir)
}

func TestLoadDefaultProfileIsBase(t *testing.T) {
	v := newViper(t, sampleConfig)
	v.Set("profile", "default")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadUnknownProfile(t *testing.T) {
	v := newViper(t, sampleConfig)
	v.Set("profile", "missing")

	_, err := Load(v)
	assert.ErrorContains(t, err, `profile "missing" not found`)
}

func TestInitReadsEnvironment(t *testing.T) {
	t.Setenv("CCCONVERT_LOG_LEVEL", "trace")
	t.Setenv("HOME", t.TempDir())
	chdirTemp(t)

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.LogLevel)
}

func TestInitExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: skills\n"), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "skills", cfg.Type)

	err = Init(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

const overrideConfig = `
dialects:
  gemini:
    tools:
      NotebookEdit: notebook
    slash_commands:
      /Deploy: deploy the service
profiles:
  ci:
    dialects:
      gemini:
        tools:
          NotebookRead: notebook_read
`

func TestConfigToolOverridesReachConversion(t *testing.T) {
	def, err := frontmatter.ParseAgent("agents/writer.md",
		"---\ntools: NotebookEdit, NotebookRead\n---\n\nUse `NotebookEdit`, then /Deploy.\n")
	require.NoError(t, err)

	tests := []struct {
		name     string
		profile  string
		tools    string
		body     string
		unknown  []string
		override string
	}{
		{
			name:     "base configuration",
			tools:    "tools:\n  - notebook\n",
			body:     "Use `notebook`, then deploy the service.",
			unknown:  []string{"NotebookRead"},
			override: "NotebookEdit",
		},
		{
			name:     "profile replaces the dialect entry",
			profile:  "ci",
			tools:    "tools:\n  - notebook_read\n",
			body:     "Use `NotebookEdit`, then /Deploy.",
			unknown:  []string{"NotebookEdit"},
			override: "NotebookRead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(overrideConfig), 0o644))

			v := viper.New()
			require.NoError(t, Init(v, path))
			v.Set("profile", tt.profile)

			cfg, err := Load(v)
			require.NoError(t, err)

			overrides := cfg.DialectOverrides("gemini")
			assert.Contains(t, overrides.Tools, tt.override, "key spelling from the file is kept")

			d, err := dialects.Get("gemini", overrides)
			require.NoError(t, err)

			result, err := transcode.New(d).Convert(def)
			require.NoError(t, err)
			assert.Contains(t, string(result.Content), tt.tools)
			assert.Contains(t, string(result.Content), tt.body)
			assert.Equal(t, tt.unknown, result.UnknownTools)
		})
	}
}

func TestToolOverridesWithoutConfigFile(t *testing.T) {
	cfg, err := Load(newViper(t, overrideConfig))
	require.NoError(t, err)

	overrides := cfg.DialectOverrides("gemini")
	assert.Contains(t, overrides.Tools, "notebookedit", "without a file the lower-cased key remains")

	d, err := dialects.Get("gemini", overrides)
	require.NoError(t, err)

	target, ok := d.Tools.Lookup("NotebookEdit")
	assert.True(t, ok)
	assert.Equal(t, "notebook", target)
}

// chdirTemp changes into a fresh temp directory and restores the previous
// working directory on cleanup (stand-in for testing.T.Chdir, Go 1.24+)
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

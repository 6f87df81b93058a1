// Package config loads ccconvert settings from viper: config file, CCCONVERT_*
// environment variables and bound flags, with an optional named profile
// merged on top.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/theTyster/context-focused-claude/pkg/dialects"
)

// EnvPrefix is the prefix of environment variables read as settings
const EnvPrefix = "CCCONVERT"

// Default settings
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "fmt"
	DefaultAgentsDir = "./agents"
	DefaultSkillsDir = "./skills"
)

// Config is the resolved ccconvert configuration
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Type is the conversion type; empty means the dialect's default
	Type      string   `mapstructure:"type"`
	AgentsDir string   `mapstructure:"agents_dir"`
	SkillsDir string   `mapstructure:"skills_dir"`
	OutputDir string   `mapstructure:"output_dir"`
	Exclude   []string `mapstructure:"exclude"`
	Verify    bool     `mapstructure:"verify"`

	Dialects map[string]dialects.Overrides `mapstructure:"dialects"`

	Profile  string                    `mapstructure:"profile"`
	Profiles map[string]map[string]any `mapstructure:"profiles"`
}

// Init wires v to the environment and to config.yaml in $HOME/.ccconvert or
// the working directory. An explicit configFile must exist; the default
// locations are optional.
func Init(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ccconvert")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// SetDefaults registers the default settings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("agents_dir", DefaultAgentsDir)
	v.SetDefault("skills_dir", DefaultSkillsDir)
}

// Load unmarshals v and applies the active profile, if any
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if cfg.Profiles != nil {
		delete(cfg.Profiles, "default")
	}

	if name := cfg.Profile; name != "" && name != "default" {
		profile, ok := cfg.Profiles[name]
		if !ok {
			return nil, errors.Errorf("profile %q not found in configuration", name)
		}
		if err := applyProfile(&cfg, profile); err != nil {
			return nil, errors.Wrapf(err, "failed to apply profile %q", name)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		if err := restoreKeyCase(&cfg, configFile); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// applyProfile decodes profile on top of cfg. Unset profile keys keep the base
// values; a dialect entry in a profile replaces the base entry for that dialect.
func applyProfile(cfg *Config, profile map[string]any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	return decoder.Decode(profile)
}

// caseSensitiveMaps name the override maps keyed by tool names or slash
// commands, which viper lower-cases along with every other key
var caseSensitiveMaps = map[string]bool{"tools": true, "slash_commands": true}

// restoreKeyCase puts back the spelling the config file uses for tool and
// slash command keys. Only YAML and JSON files are inspected.
func restoreKeyCase(cfg *Config, configFile string) error {
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", configFile)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", configFile)
	}

	spelled := make(map[string]string)
	collectKeySpelling(raw, "", spelled)
	if len(spelled) == 0 {
		return nil
	}

	for name, o := range cfg.Dialects {
		o.Tools = respell(o.Tools, spelled)
		o.SlashCommands = respell(o.SlashCommands, spelled)
		cfg.Dialects[name] = o
	}
	return nil
}

func collectKeySpelling(node any, parent string, spelled map[string]string) {
	m, ok := node.(map[string]any)
	if !ok {
		return
	}
	for key, value := range m {
		if caseSensitiveMaps[strings.ToLower(parent)] {
			spelled[strings.ToLower(key)] = key
		}
		collectKeySpelling(value, key, spelled)
	}
}

func respell(m, spelled map[string]string) map[string]string {
	if len(m) == 0 {
		return m
	}
	out := make(map[string]string, len(m))
	for key, value := range m {
		if original, ok := spelled[key]; ok {
			key = original
		}
		out[key] = value
	}
	return out
}

// DialectOverrides returns the configured overrides for a dialect
func (c *Config) DialectOverrides(name string) dialects.Overrides {
	return c.Dialects[strings.ToLower(name)]
}

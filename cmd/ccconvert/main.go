package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theTyster/context-focused-claude/pkg/config"
	"github.com/theTyster/context-focused-claude/pkg/dialects"
	"github.com/theTyster/context-focused-claude/pkg/logger"
	"github.com/theTyster/context-focused-claude/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "ccconvert",
	Short: "Convert Claude Code agents and skills to other coding assistants",
	Long: `ccconvert rewrites Claude Code agent and skill definitions for OpenCode,
Kiro CLI and Gemini CLI: tool and model names are remapped, slash commands
and tool mentions in the body are rewritten, and each definition is written
in the target's layout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if err := config.Init(viper.GetViper(), configFile); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}
		logger.SetLogOutput(cmd.ErrOrStderr())

		quiet, _ := cmd.Flags().GetBool("quiet")
		presenter.SetQuiet(quiet)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.ccconvert/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "Configuration profile to apply")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (fmt or json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")

	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	for _, name := range dialects.Names() {
		rootCmd.AddCommand(newConvertCmd(name))
	}
	rootCmd.AddCommand(dialectsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "")
		cancel()
		os.Exit(1)
	}
}

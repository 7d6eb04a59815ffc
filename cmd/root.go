package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/config"
	"github.com/aginor/exphil/internal/logging"
	"github.com/aginor/exphil/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "exphil",
	Short: "Quiz og læring til examen philosophicum",
	Long:  "ExPhil: terminalklient med flervalgsspørsmål, læremodus og filosofoversikt for examen philosophicum.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, session.ModeQuiz, "", false)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./config/config.yaml or $XDG_CONFIG_HOME/exphil/config.yaml)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file for the interactive client (overrides log_file)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig reads configuration honouring --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: path})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// cliLogger returns a logger writing to stderr for non-interactive commands.
func cliLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Env, logging.Stderr)
}

// tuiLogger returns a logger writing to a file so the terminal stays free
// for the UI. --log-file wins over log_file, which wins over the XDG default.
func tuiLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	path, _ := cmd.Flags().GetString("log-file")
	if path == "" {
		path = cfg.LogFile
	}
	if path == "" {
		p, err := logging.DefaultFile()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return logging.New(cfg.Env, path)
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/config"
	"github.com/hamed0406/appsentry/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "appsentry",
	Short: "Discovery, test batteries and health monitoring for a fleet of AI apps",
	Long: "Appsentry discovers the applications in a repository, runs per-app check\n" +
		"batteries (dependencies, configuration, tests, security, health endpoints)\n" +
		"and folds the results into verdicts, recommendations and alerts.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "appsentry.yaml", "config file path")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

// setup loads the config and builds the logger shared by subcommands.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.NewLogger(cfg.LogDir, debug)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mcp-kids-nutrition/internal/config"
	"mcp-kids-nutrition/internal/logging"
)

// Injected with -ldflags "-X main.version=...".
var version = "1.0.0"

// app carries what PersistentPreRunE loaded to the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "kids-nutrition",
		Short: "Children's nutrition assistant with explainable answers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file path (YAML)")

	cmd.AddCommand(
		newServeCommand(a),
		newExplainCommand(a),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Skip config loading for version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("kids-nutrition version %s\n", version)
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mcp-kids-nutrition/internal/config"
	"mcp-kids-nutrition/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServeFlags(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), a)
		},
	}

	fl := cmd.Flags()
	fl.String("transport", "http", "Transport mode: http")
	fl.String("host", "0.0.0.0", "Host address")
	fl.String("address", "", "Address (alias for host)")
	fl.Int("port", 8012, "Port for HTTP transport")
	fl.String("db-path", "/data/kids-nutrition.db", "Database path")
	return cmd
}

// applyServeFlags copies explicitly set flags over the loaded config.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("transport") {
		cfg.Server.Transport, _ = fl.GetString("transport")
	}
	if fl.Changed("host") {
		cfg.Server.Host, _ = fl.GetString("host")
	}
	if addr, _ := fl.GetString("address"); addr != "" {
		cfg.Server.Host = addr
	}
	if fl.Changed("port") {
		cfg.Server.Port, _ = fl.GetInt("port")
	}
	if fl.Changed("db-path") {
		cfg.Storage.DBPath, _ = fl.GetString("db-path")
	}
}

func runServe(ctx context.Context, a *app) error {
	srv, err := server.NewNutritionServer(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("received shutdown signal")
	case runErr = <-errCh:
		if runErr != nil {
			a.logger.Error("server error", zap.Error(runErr))
		}
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		a.logger.Error("error during shutdown", zap.Error(err))
	}
	return runErr
}

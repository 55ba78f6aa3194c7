package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"connect-service/internal/app"
	"connect-service/internal/config"
	"connect-service/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:          "connect-service",
		Short:        "Social login connect service",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.LogLevel)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := app.OpenDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return d.Close()
		},
	}

	root.RunE = serveCmd.RunE
	root.AddCommand(serveCmd, migrateCmd)

	root.SetErrPrefix("connect-service:")
	return root
}

func serve(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(
		parent,
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize app", map[string]any{"error": err})
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	logger.Info("connect-service started", map[string]any{
		"port": cfg.AppPort,
	})

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", map[string]any{"error": err})
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", map[string]any{"error": err})
		return err
	}

	logger.Info("connect-service stopped cleanly", nil)
	return nil
}

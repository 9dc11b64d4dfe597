package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-scorer/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the scoring endpoints, analysis history, health and metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	} else {
		app.Logger.Info("analysis history disabled", zap.String("driver", app.Config.Database.Driver))
	}

	cfg := app.ServerConfig()
	if servePort != 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(cfg, server.Deps{
		Scorer:    app.Scorer,
		Extractor: app.Ingestion,
		Store:     store,
		Logger:    app.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

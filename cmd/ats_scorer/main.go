// Package main provides the ats_scorer command line interface and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-scorer/internal/bootstrap"
	"github.com/jonathan/ats-scorer/internal/config"
	"github.com/jonathan/ats-scorer/internal/logger"
	"github.com/jonathan/ats-scorer/internal/scoring"
)

// Exit codes by error kind
const (
	exitError               = 1
	exitInputValidation     = 2
	exitInsufficientContent = 3
	exitModelUnavailable    = 4
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "ats_scorer",
	Short:         "Score résumés against job descriptions",
	Long:          "ats_scorer rates how well a résumé matches a job description using keyword, skill, semantic, experience and formatting signals.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default ./ats-scorer.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps scoring error kinds to distinct process exit codes
func exitCode(err error) int {
	switch scoring.KindOf(err) {
	case scoring.KindInputValidation:
		return exitInputValidation
	case scoring.KindInsufficientContent:
		return exitInsufficientContent
	case scoring.KindModelUnavailable:
		return exitModelUnavailable
	default:
		return exitError
	}
}

// loadConfig reads configuration and applies the global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads configuration, builds the logger and assembles the scoring stack.
// The caller must call the returned cleanup function.
func setup(cmd *cobra.Command) (*bootstrap.App, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app, err := bootstrap.Build(cmd.Context(), cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Warn("failed to release resources", zap.Error(err))
		}
		_ = log.Sync()
	}
	return app, cleanup, nil
}

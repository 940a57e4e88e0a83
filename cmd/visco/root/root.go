package root

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/crucial707/visco/internal/config"
	"github.com/crucial707/visco/internal/db"
	"github.com/crucial707/visco/internal/logging"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "visco",
	Short:         "Encrypted personal data keeper",
	Long:          "visco serves the web application and provides administrative commands for its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// OpenDB connects to the configured database. Tests replace it.
var OpenDB = func(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	return db.Connect(ctx, cfg)
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}

// Setup loads configuration and installs the process logger. Commands that touch the
// database or serve traffic call it first.
func Setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

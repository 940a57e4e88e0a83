package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/visco/cmd/visco/root"
	"github.com/crucial707/visco/internal/db"
)

func init() {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.Setup()
			if err != nil {
				return err
			}
			if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			cfg, logger, err := root.Setup()
			if err != nil {
				return err
			}
			if err := db.MigrateDown(cfg.DatabaseURL, steps); err != nil {
				return err
			}
			logger.Info("migrations reverted", "steps", steps)
			return nil
		},
	}
	downCmd.Flags().Int("steps", 1, "number of migrations to revert")

	migrateCmd.AddCommand(upCmd, downCmd)
	root.GetRoot().AddCommand(migrateCmd)
}

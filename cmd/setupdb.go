package cmd

import (
	"fmt"

	"milano/configs"
	"milano/pkg/logger"
	"milano/repository"

	"github.com/spf13/cobra"
)

// NewSetupDBCommand migrates the relational store and seeds the admin account and
// the demo catalog. Running it twice changes nothing.
func NewSetupDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-db",
		Short: "Migrate and seed the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DBDriver == repository.ModeMemory {
				return fmt.Errorf("setup-db needs DB_DRIVER=sqlite or postgres")
			}
			store, err := configs.OpenStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()
			if _, err := configs.Seed(cmd.Context(), store, cfg); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			logger.Default().WithField("driver", cfg.DBDriver).Info("database ready")
			return nil
		},
	}
}

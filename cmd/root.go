package cmd

import (
	"fmt"
	"os"

	"milano/configs"
	"milano/pkg/logger"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "milano",
		Short:         "Milano restaurant ordering backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewSetupDBCommand())
	return cmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*configs.Config, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

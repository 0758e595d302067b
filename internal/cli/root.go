package cli

import (
	"fmt"

	"hatim-app-go/internal/config"
	"hatim-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

// RootCmd returns the hatim-app command tree. Every subcommand shares log.
func RootCmd(log logger.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hatim-app",
		Short: "Group reading tracker backend",
		Long: `hatim-app serves the team and hatim API, applies database
migrations and runs one-off completion checks.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(ServeCmd(log))
	rootCmd.AddCommand(MigrateCmd(log))
	rootCmd.AddCommand(CheckCmd(log))

	return rootCmd
}

func loadConfig(log logger.Logger) (config.Config, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

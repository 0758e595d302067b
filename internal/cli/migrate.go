package cli

import (
	"fmt"

	"hatim-app-go/internal/db"
	"hatim-app-go/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func MigrateCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(log)
			if err != nil {
				return err
			}

			conn, err := db.NewPostgres(cfg.DB, log)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := conn.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			applied, err := db.Migrate(conn, log)
			if err != nil {
				return err
			}

			if applied == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgYellow).Sprint("up to date"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d migration(s)\n", color.New(color.FgGreen).Sprint("applied"), applied)
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"strings"

	"hatim-app-go/internal/app"
	hatimdomain "hatim-app-go/internal/domain/hatim"
	"hatim-app-go/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func CheckCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check <hatim-id>",
		Short: "Recompute a hatim's progress and close it if every page is read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(log)
			if err != nil {
				return err
			}
			cfg.Hatim.TriggerEnabled = false

			application, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			defer application.Close()

			hatimID := strings.TrimSpace(args[0])
			result, err := application.Hatims.CheckCompletion(cmd.Context(), hatimID)
			if err != nil {
				return fmt.Errorf("check %s: %w", hatimID, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatCheck(hatimID, result))
			return nil
		},
	}
}

func formatCheck(hatimID string, result *hatimdomain.CheckResult) string {
	if result.Progress == nil {
		return fmt.Sprintf("%s %s", hatimID, color.New(color.FgGreen).Sprint("already completed"))
	}

	progress := result.Progress
	counts := fmt.Sprintf("%d/%d pages, %d%%", progress.CompletedPages, progress.TotalPages, progress.Percent)
	if result.Completed {
		return fmt.Sprintf("%s %s (%s)", hatimID, color.New(color.FgGreen).Sprint("completed"), counts)
	}
	return fmt.Sprintf("%s %s (%s)", hatimID, color.New(color.FgYellow).Sprint("in progress"), counts)
}

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/coopsoft/usermgmt/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "usermgmt",
	Short:        "Console user-management system",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

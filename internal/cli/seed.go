package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coopsoft/usermgmt/internal/config"
	"github.com/coopsoft/usermgmt/internal/infrastructure/db/postgres"
	"github.com/coopsoft/usermgmt/internal/infrastructure/security"
	"github.com/coopsoft/usermgmt/internal/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Provision the initial admin account",
	Long: `Provision the initial admin account from ADMIN_USERNAME and
ADMIN_PASSWORD. Safe to run repeatedly: an existing account is left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.AdminPassword == "" {
				return fmt.Errorf("missing required env var: ADMIN_PASSWORD")
			}
			if !security.MeetsStrengthPolicy(cfg.AdminPassword) {
				return fmt.Errorf("ADMIN_PASSWORD does not meet the strength policy")
			}

			hasher, err := security.NewPBKDF2Hasher(cfg.HashSecret, cfg.HashIterations)
			if err != nil {
				return err
			}

			repo := postgres.NewUserRepo(db, hasher)
			admin, err := postgres.SeedAdmin(cmd.Context(), repo, hasher, cfg.AdminUsername, cfg.AdminPassword)
			if err != nil {
				return err
			}
			logger.Logger.Info().
				Int64("id", admin.ID).
				Str("username", admin.Username).
				Msg("admin account ready")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coopsoft/usermgmt/internal/bootstrap"
	"github.com/coopsoft/usermgmt/internal/transport/console"
)

var runStore string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive console",
	Long: `Start the interactive console. Usage:

	usermgmt run
	usermgmt run --store memory    # throwaway in-memory store with a demo admin
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := bootstrap.StoreKind(runStore)
		if store != bootstrap.StorePostgres && store != bootstrap.StoreMemory {
			return fmt.Errorf("unknown store %q (want postgres or memory)", runStore)
		}

		app, cleanup, err := bootstrap.New(store)
		if err != nil {
			return err
		}
		defer cleanup()

		return console.New(app.Service).Run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringVar(&runStore, "store", string(bootstrap.StorePostgres), "store backend: postgres or memory")
	rootCmd.AddCommand(runCmd)
}

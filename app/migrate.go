package app

import (
	"github.com/spf13/cobra"

	"github.com/fieldcrew/crewaccess/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create or update the database schema and seed the permission catalog",
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, _, err := daemon.OpenServices(cmd.Context(), &cfg, true)
		if err != nil {
			return err
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}

		return sqlDB.Close()
	},
}

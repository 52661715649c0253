package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		config, logger, err := setup(cmd, false)
		if err != nil {
			return err
		}

		database, _, err := openStore(config, logger)
		if err != nil {
			return err
		}
		defer database.Close()

		logger.Info(cmd.Context(), "Migrated %s database", config.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/medical-prescription/internal/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			return database.Migrate(cmd.Context(), &a.logger, a.cfg)
		},
	}
}

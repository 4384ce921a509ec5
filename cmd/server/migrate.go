package main

import (
	"github.com/spf13/cobra"

	"github.com/rentr/api/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := database.NewPostgresPool(ctx, a.cfg.Database)
			if err != nil {
				a.log.Error("Failed to connect to database", err, map[string]interface{}{
					"host": a.cfg.Database.Host,
					"name": a.cfg.Database.Name,
				})
				return err
			}
			defer db.Close()

			return database.Migrate(ctx, db.Pool, a.log.Component("migrate"))
		},
	}
}

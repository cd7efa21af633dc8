// File: cmd/diagnostic/db_diagnostic.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moddin/kichat/internal/config"
	"github.com/moddin/kichat/internal/database"
)

func newDBCmd(cfg *config.Config) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Check database connectivity and migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg.DBDriver, cfg.DBDSN, nil)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.Ping(); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
			fmt.Printf("Connected: %s\n", cfg.DBDriver)

			if migrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
				fmt.Println("Migrations applied")
			}

			missing := 0
			for _, m := range database.Models() {
				stmt := db.Model(m).Statement
				if err := stmt.Parse(m); err != nil {
					return err
				}
				table := stmt.Schema.Table
				if db.Migrator().HasTable(m) {
					var count int64
					if err := db.Model(m).Count(&count).Error; err != nil {
						return err
					}
					fmt.Printf("  %-16s ok (%d rows)\n", table, count)
				} else {
					missing++
					fmt.Printf("  %-16s missing\n", table)
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d tables missing, run with --migrate", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before checking")
	return cmd
}

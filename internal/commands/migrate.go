package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gripfinance/grip-backend/internal/config"
	"github.com/gripfinance/grip-backend/internal/database"
)

func newMigrateCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("db") {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dbPath = cfg.Database.Path
			}
			return runMigrate(cmd.Context(), cmd.OutOrStdout(), dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "database path (defaults to DB_PATH)")

	return cmd
}

func runMigrate(ctx context.Context, w io.Writer, dbPath string) error {
	db, err := database.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return err
	}

	status, err := database.SchemaStatus(ctx, db)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Fprintf(w, "database %s is up to date at version %d\n", dbPath, status.Version)
		return nil
	}
	fmt.Fprintf(w, "applied %d migration(s), database %s is at version %d\n", len(applied), dbPath, status.Version)
	return nil
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/db"
	"github.com/sells-group/recon-cli/internal/refstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database schemas",
	Long:  "Applies the run store schema and, when a reference database is configured, the reference schema.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		zap.L().Info("run store migrated", zap.String("driver", cfg.Store.Driver))

		if cfg.RefDB.DatabaseURL == "" {
			zap.L().Info("no reference database configured, skipping reference schema")
			return nil
		}

		pool, err := db.Connect(ctx, cfg.RefDB.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "connect reference database")
		}
		defer pool.Close()

		if err := refstore.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "migrate reference schema")
		}
		zap.L().Info("reference schema migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

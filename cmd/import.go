package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/db"
	"github.com/sells-group/recon-cli/internal/refstore"
)

var importXLSXPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import reference line items from an XLSX export",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cfg.RefDB.DatabaseURL == "" {
			return eris.New("reference database URL is required (RECON_REFDB_DATABASE_URL)")
		}

		pool, err := db.Connect(ctx, cfg.RefDB.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "connect reference database")
		}
		defer pool.Close()

		if err := refstore.Migrate(ctx, pool); err != nil {
			return eris.Wrap(err, "migrate reference schema")
		}

		rows, err := refstore.ImportXLSX(ctx, pool, importXLSXPath)
		if err != nil {
			return eris.Wrap(err, "import xlsx")
		}

		zap.L().Info("import complete",
			zap.Int64("rows", rows),
			zap.String("xlsx", importXLSXPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to XLSX file (required)")
	_ = importCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(importCmd)
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/normalize"
	"github.com/sells-group/recon-cli/internal/refstore"
)

var (
	correctID    int64
	correctQty   float64
	correctPrice float64
	correctDate  string
)

var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Apply a confirmed correction to a reference line item",
	Long:  "Updates a reference line item with human-confirmed values. Only the supplied flags are written; omitted fields are left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ref, err := initRefStore(ctx)
		if err != nil {
			return err
		}
		defer ref.Close()

		c := refstore.Correction{ReferenceID: correctID}
		if cmd.Flags().Changed("quantity") {
			c.Quantity = &correctQty
		}
		if cmd.Flags().Changed("price") {
			c.UnitPrice = &correctPrice
		}
		if correctDate != "" {
			d, err := normalize.Date(cfg.Normalize, correctDate)
			if err != nil {
				return eris.Wrapf(err, "parse date %q", correctDate)
			}
			c.DeliveryDate = d
		}

		if err := ref.ApplyCorrection(ctx, c); err != nil {
			return eris.Wrap(err, "apply correction")
		}

		zap.L().Info("correction applied", zap.Int64("reference_id", correctID))
		return nil
	},
}

func init() {
	correctCmd.Flags().Int64Var(&correctID, "id", 0, "reference line item ID (required)")
	correctCmd.Flags().Float64Var(&correctQty, "quantity", 0, "corrected quantity")
	correctCmd.Flags().Float64Var(&correctPrice, "price", 0, "corrected unit price")
	correctCmd.Flags().StringVar(&correctDate, "date", "", "corrected delivery date (YYYY-MM-DD)")
	_ = correctCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(correctCmd)
}

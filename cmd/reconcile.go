package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/model"
)

var (
	reconcileFile string
	reconcileJSON string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a single document against reference data",
	Long:  "Extracts a document from PDF (or reads a pre-extracted JSON file), applies delivery date inheritance, matches line items against the reference system, and prints the reconciliation result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var result *model.ReconciliationResult
		switch {
		case reconcileFile != "":
			result, err = env.Pipeline.ReconcileFile(ctx, reconcileFile)
		case reconcileJSON != "":
			doc, readErr := readDocument(reconcileJSON)
			if readErr != nil {
				return readErr
			}
			result, err = env.Pipeline.Reconcile(ctx, doc)
		default:
			return eris.New("either --file or --json is required")
		}
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}

		zap.L().Info("reconcile complete",
			zap.String("document_id", result.Header.DocumentID),
			zap.Int("lines", result.Summary.TotalLines),
			zap.Float64("accuracy", result.Summary.AccuracyPercentage),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// readDocument loads an already-extracted document from a JSON file,
// bypassing OCR and AI extraction.
func readDocument(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read document %s", path)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "parse document %s", path)
	}
	return &doc, nil
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileFile, "file", "", "path to a PDF document")
	reconcileCmd.Flags().StringVar(&reconcileJSON, "json", "", "path to a pre-extracted document JSON file")
	reconcileCmd.MarkFlagsMutuallyExclusive("file", "json")
	rootCmd.AddCommand(reconcileCmd)
}

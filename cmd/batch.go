package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/recon-cli/internal/model"
)

var (
	batchDir   string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Reconcile every PDF in a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		files, err := listPDFs(batchDir)
		if err != nil {
			return err
		}

		return processBatch(ctx, files, batchLimit, cfg.Batch.MaxConcurrentDocuments, func(ctx context.Context, path string) (*model.ReconciliationResult, error) {
			return env.Pipeline.ReconcileFile(ctx, path)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory containing PDF documents (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

// listPDFs returns the PDF files directly inside dir, sorted by name.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read directory %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// reconcileFunc is the callback signature for reconciling one document file.
type reconcileFunc func(ctx context.Context, path string) (*model.ReconciliationResult, error)

// processBatch applies limit, then reconciles files concurrently.
// Individual failures are logged and counted; they never abort the batch.
func processBatch(ctx context.Context, files []string, limit, concurrency int, reconcile reconcileFunc) error {
	if len(files) == 0 {
		zap.L().Info("no documents found")
		return nil
	}

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(files)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range files {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			result, err := reconcile(gctx, path)
			if err != nil {
				failed.Add(1)
				log.Error("reconciliation failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("reconciliation complete",
				zap.String("document_id", result.Header.DocumentID),
				zap.Int("perfect", result.Summary.PerfectMatches),
				zap.Int("unmatched", result.Summary.Unmatched),
				zap.Float64("accuracy", result.Summary.AccuracyPercentage),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

// Package pipeline orchestrates one document's reconciliation run:
// text extraction, AI extraction, date inheritance, candidate loading,
// matching, and report assembly.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/extract"
	"github.com/sells-group/recon-cli/internal/inherit"
	"github.com/sells-group/recon-cli/internal/match"
	"github.com/sells-group/recon-cli/internal/model"
	"github.com/sells-group/recon-cli/internal/ocr"
	"github.com/sells-group/recon-cli/internal/refstore"
	"github.com/sells-group/recon-cli/internal/report"
	"github.com/sells-group/recon-cli/internal/store"
)

// Pipeline wires the collaborators for reconciliation runs. Each run is
// a self-contained computation; a Pipeline is safe for concurrent use as
// long as its collaborators are.
type Pipeline struct {
	ocr       ocr.Extractor
	extractor extract.Extractor
	loader    refstore.Loader
	matcher   *match.Matcher
	runs      store.Store
}

// New assembles a Pipeline. runs may be nil, in which case results are
// not persisted.
func New(ocrExt ocr.Extractor, extractor extract.Extractor, loader refstore.Loader, matcher *match.Matcher, runs store.Store) *Pipeline {
	return &Pipeline{
		ocr:       ocrExt,
		extractor: extractor,
		loader:    loader,
		matcher:   matcher,
		runs:      runs,
	}
}

// ReconcileFile runs the full pipeline for one PDF on disk.
func (p *Pipeline) ReconcileFile(ctx context.Context, path string) (*model.ReconciliationResult, error) {
	run := p.startRun(ctx, "", path)

	text, err := p.ocr.ExtractText(ctx, path)
	if err != nil {
		return nil, p.failRun(ctx, run, eris.Wrap(err, "pipeline: extract text"))
	}

	p.setStatus(ctx, run, model.RunStatusExtracting)
	doc, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, p.failRun(ctx, run, eris.Wrap(err, "pipeline: extract fields"))
	}

	result, err := p.reconcile(ctx, run, doc)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reconcile runs matching and reporting for an already-extracted document.
func (p *Pipeline) Reconcile(ctx context.Context, doc *model.Document) (*model.ReconciliationResult, error) {
	run := p.startRun(ctx, doc.Header.DocumentID, "")
	return p.reconcile(ctx, run, doc)
}

func (p *Pipeline) reconcile(ctx context.Context, run *model.Run, doc *model.Document) (*model.ReconciliationResult, error) {
	log := zap.L().With(zap.String("document_id", doc.Header.DocumentID))

	lines := inherit.Apply(doc.Header.DeliveryDate, doc.Lines)

	p.setStatus(ctx, run, model.RunStatusReconciling)
	candidates, err := p.loader.LoadCandidates(ctx, doc.Header.DocumentID)
	if err != nil {
		// I/O failure against the reference store aborts the run; no
		// partial result is produced.
		return nil, p.failRun(ctx, run, eris.Wrap(err, "pipeline: load candidates"))
	}
	if len(candidates) == 0 {
		log.Warn("no candidates; all lines will be unmatched")
	}

	matches := p.matcher.Match(lines, candidates)
	result := report.Build(doc.Header, matches)

	log.Info("reconciliation complete",
		zap.Int("lines", result.Summary.TotalLines),
		zap.Int("perfect", result.Summary.PerfectMatches),
		zap.Int("partial", result.Summary.PartialMatches),
		zap.Int("unmatched", result.Summary.Unmatched),
		zap.Bool("total_mismatch", result.Mismatch),
	)

	p.completeRun(ctx, run, &result)
	return &result, nil
}

// Run bookkeeping: persistence failures are logged, never fatal to the
// reconciliation itself, except failRun which returns the original error.

func (p *Pipeline) startRun(ctx context.Context, documentID, source string) *model.Run {
	if p.runs == nil {
		return nil
	}
	run, err := p.runs.CreateRun(ctx, documentID, source)
	if err != nil {
		zap.L().Warn("create run failed", zap.Error(err))
		return nil
	}
	return run
}

func (p *Pipeline) setStatus(ctx context.Context, run *model.Run, status model.RunStatus) {
	if run == nil {
		return
	}
	if err := p.runs.UpdateRunStatus(ctx, run.ID, status); err != nil {
		zap.L().Warn("update run status failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (p *Pipeline) completeRun(ctx context.Context, run *model.Run, result *model.ReconciliationResult) {
	if run == nil {
		return
	}
	if err := p.runs.CompleteRun(ctx, run.ID, result); err != nil {
		zap.L().Warn("complete run failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (p *Pipeline) failRun(ctx context.Context, run *model.Run, cause error) error {
	if run != nil {
		if err := p.runs.FailRun(ctx, run.ID, cause); err != nil {
			zap.L().Warn("fail run failed", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
	return cause
}

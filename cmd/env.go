package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recon-cli/internal/db"
	"github.com/sells-group/recon-cli/internal/extract"
	"github.com/sells-group/recon-cli/internal/match"
	"github.com/sells-group/recon-cli/internal/ocr"
	"github.com/sells-group/recon-cli/internal/pipeline"
	"github.com/sells-group/recon-cli/internal/refstore"
	"github.com/sells-group/recon-cli/internal/store"
)

// pipelineEnv holds the initialized store, reference store, and pipeline
// needed by the reconcile/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	RefStore refstore.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.RefStore != nil {
		pe.RefStore.Close()
	}
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		path := cfg.Store.Path
		if path == "" {
			path = "recon.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initRefStore(ctx context.Context) (*refstore.PostgresStore, error) {
	if cfg.RefDB.DatabaseURL == "" {
		return nil, eris.New("reference database URL is required (RECON_REFDB_DATABASE_URL)")
	}
	pool, err := db.Connect(ctx, cfg.RefDB.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "connect reference database")
	}
	return refstore.NewPostgres(pool), nil
}

// initPipeline sets up the run store, reference store, extractors, and
// matcher. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	ref, err := initRefStore(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	ocrExt, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		ref.Close()
		_ = st.Close()
		return nil, err
	}

	extractor, err := extract.NewAnthropic(cfg.Anthropic, cfg.Normalize)
	if err != nil {
		ref.Close()
		_ = st.Close()
		return nil, err
	}

	matcher, err := match.New(cfg.Matcher)
	if err != nil {
		ref.Close()
		_ = st.Close()
		return nil, err
	}

	zap.L().Debug("pipeline initialized",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("ocr_provider", cfg.OCR.Provider),
		zap.String("model", cfg.Anthropic.Model),
	)

	p := pipeline.New(ocrExt, extractor, ref, matcher, st)

	return &pipelineEnv{
		Store:    st,
		RefStore: ref,
		Pipeline: p,
	}, nil
}

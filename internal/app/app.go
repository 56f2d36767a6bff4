// Package app wires configuration into the services shared by the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/config"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/ingest"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/llm"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/ocr"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/pdf"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/query"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/store"
)

// App holds the constructed services.
type App struct {
	Config     *config.Config
	Logger     *observability.Logger
	Store      store.Store
	Ingest     *ingest.Service
	Dispatcher *query.Dispatcher
}

// Options overrides individual components; zero values use the defaults
// built from configuration.
type Options struct {
	Engine    ocr.Engine
	Completer domain.Completer
}

// Build constructs every service from cfg.
func Build(ctx context.Context, cfg *config.Config, logger *observability.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = observability.Nop()
	}

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	engine := opts.Engine
	if engine == nil {
		engine = ocr.NewTesseractEngine(cfg.Ingestion.OCRLanguages...)
	}

	ingestSvc := ingest.NewService(
		logger,
		ingest.Config{
			StagingDir:     cfg.Ingestion.StagingDir,
			OCRConcurrency: cfg.Ingestion.OCRConcurrency,
		},
		pdf.NewValidator(),
		pdf.NewConverter(cfg.Ingestion.PDFDPI),
		ocr.NewExtractor(engine, logger),
		st,
	)

	completer := opts.Completer
	if completer == nil && cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(llm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)
		if err != nil {
			st.Close()
			return nil, err
		}
		completer = client
	}
	if completer == nil {
		logger.Warn().Msg("LLM_API_KEY not set; summarize and query will fail")
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      st,
		Ingest:     ingestSvc,
		Dispatcher: query.NewDispatcher(st, completer, logger),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

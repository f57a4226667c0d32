// Package app wires the generation pipeline shared by the HTTP server and the CLI.
// Dependencies are passed explicitly; there is no container.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/config"
	"github.com/fleveque/quote-service/internal/credentials"
	"github.com/fleveque/quote-service/internal/generation"
	"github.com/fleveque/quote-service/internal/llm"
	"github.com/fleveque/quote-service/internal/provider"
	"github.com/fleveque/quote-service/internal/service"
	"github.com/fleveque/quote-service/internal/storage"
)

// App holds the long-lived components built from the configuration.
type App struct {
	Router *llm.Router
	Images *provider.PexelsProvider
	Quotes *service.QuoteService
	Calls  storage.LLMCallRepository // nil when the ledger is disabled

	db *sqlx.DB
}

// New loads credentials and builds every component. Credential failures match
// credentials.ErrMissingCredential with errors.Is.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	creds, err := credentials.Load(cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	a := &App{}

	if cfg.Storage.DatabasePath != "" {
		a.db, a.Calls, err = OpenLedger(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, err
		}
		logger.Info("llm call ledger enabled", zap.String("path", cfg.Storage.DatabasePath))
	}

	backends, err := llm.NewBackends(ctx, cfg.LLM, creds)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating llm backends: %w", err)
	}

	a.Router = llm.NewRouter(cfg.LLM.Models, backends, cfg.LLM.RatePerMinute, a.Calls, logger)
	if !a.Router.HasModel(cfg.Generation.DefaultModel) {
		a.Close()
		return nil, fmt.Errorf("default model %q is not served by any configured backend", cfg.Generation.DefaultModel)
	}

	a.Images = provider.NewPexelsProvider(cfg.ImageSearch.BaseURL, creds.ImageSearchKey, cfg.ImageSearch.Timeout, logger)

	a.Quotes = service.NewQuoteService(
		generation.NewQuoteGenerator(a.Router),
		generation.NewImageQueryGenerator(a.Router),
		a.Images,
		a.Router,
		service.Options{
			DefaultModel:  cfg.Generation.DefaultModel,
			HistoryLimit:  cfg.Generation.HistoryLimit,
			StrictParsing: cfg.Generation.StrictParsing,
		},
		logger,
	)

	return a, nil
}

// Close releases the ledger database, if open.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// OpenLedger opens (creating if needed) the SQLite call ledger at path.
func OpenLedger(path string) (*sqlx.DB, storage.LLMCallRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	return db, storage.NewLLMCallRepository(db), nil
}

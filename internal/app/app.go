// Package app wires configuration into the stores, extractors and processors
// shared by the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/core"
	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
	"github.com/joseph-ayodele/licitaciones/internal/extract"
	"github.com/joseph-ayodele/licitaciones/internal/llm"
	"github.com/joseph-ayodele/licitaciones/internal/llm/openai"
	"github.com/joseph-ayodele/licitaciones/internal/metrics"
	"github.com/joseph-ayodele/licitaciones/internal/repository"
)

// OpenStore opens the configured sink. Driver "none" yields a nil store,
// which callers treat as persistence disabled.
func OpenStore(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case "none", "":
		logger.Info("store.disabled")
		return nil, nil
	case "sqlite":
		store, err := repository.OpenSQLite(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		pool, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.DSN,
			MaxConns:         cfg.MaxConns,
			MinConns:         cfg.MinConns,
			MaxConnLifetime:  cfg.MaxConnLifetime,
			MaxConnIdleTime:  cfg.MaxConnIdleTime,
			DialTimeout:      cfg.DialTimeout,
			StatementTimeout: cfg.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		store := repository.NewPostgresStore(pool, logger)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// NewModel returns the model-assisted extractor, or nil when it is disabled
// or has no API key.
func NewModel(cfg common.LLMConfig, logger *slog.Logger) llm.FieldExtractor {
	if !cfg.Enabled {
		logger.Info("llm.disabled", "reason", "config")
		return nil
	}
	client := openai.NewClient(openai.Config{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		Model:         cfg.Model,
		Temperature:   cfg.Temperature,
		MaxTokens:     cfg.MaxTokens,
		Timeout:       cfg.Timeout,
		MaxInputChars: cfg.MaxInputChars,
		RatePerSec:    cfg.RatePerSec,
		Burst:         cfg.Burst,
		MaxRetries:    cfg.MaxRetries,
	}, logger)
	if !client.Enabled() {
		logger.Warn("llm.disabled", "reason", "missing api key")
		return nil
	}
	logger.Info("llm.enabled", "model", client.Model())
	return client
}

// NewExtractor builds the orchestrator for cfg.
func NewExtractor(cfg *common.Config, logger *slog.Logger, m *metrics.Metrics) *extract.Orchestrator {
	return extract.NewOrchestrator(NewModel(cfg.LLM, logger), extract.Config{
		MinConfidence: cfg.LLM.MinConfidence,
	}, logger, m)
}

// NewProcessor builds a processor writing to store. A nil store disables the
// processed check and persistence.
func NewProcessor(cfg *common.Config, extractor core.Extractor, store repository.Store, logger *slog.Logger, m *metrics.Metrics) *core.Processor {
	var sink core.Sink
	if store != nil {
		sink = store
	}
	return core.NewProcessor(extractor, sink, logger,
		core.WithOpenOnly(cfg.Ingest.OpenOnly),
		core.WithEvaluator(eligibility.Evaluator{Logger: logger}),
		core.WithMetrics(m),
	)
}

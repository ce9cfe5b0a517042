// Package app assembles the configured runtime shared by every command.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/smartallies/incident/internal/config"
	"github.com/smartallies/incident/internal/intelligence"
	"github.com/smartallies/incident/internal/llm"
	"github.com/smartallies/incident/internal/llm/provider"
	"github.com/smartallies/incident/internal/logging"
	"github.com/smartallies/incident/internal/session"
	"github.com/smartallies/incident/internal/workflow"
)

// Options are the command-line selections layered over file and env config.
type Options struct {
	ConfigPath string
	LogLevel   string
	Provider   string
	Model      string
}

// Runtime holds the wired components for one process.
type Runtime struct {
	Config    *config.Config
	LLMConfig llm.LLMConfig
	Logger    *zap.Logger
	Level     zap.AtomicLevel
	Client    llm.LLMClient
	Store     *session.Store
	Engine    *workflow.Engine
}

var _ ChatUseCase = (*workflow.Engine)(nil)

// Build loads configuration and wires logger, completion client, session
// store and workflow engine.
func Build(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger, level, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return nil, err
	}

	llmCfg, err := cfg.LLMConfig()
	if err == nil {
		llmCfg, err = llmCfg.Override(opts.Provider, opts.Model)
	}
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("configuring llm: %w", err)
	}

	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewZapObserver(logger)
	}
	client, err := provider.New(ctx, llmCfg, observer)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	store := session.NewStore(session.WithLogger(logger))
	engine := workflow.New(store, intelligence.NewServices(client), cfg.Catalog(), cfg.Emergency,
		workflow.WithLogger(logger),
		workflow.WithTurnObserver(workflow.NewZapTurnObserver(logger)),
		workflow.WithAffirmationFallback(cfg.Workflow.AffirmationFallback),
	)

	logger.Info("runtime ready",
		zap.String("provider", string(llmCfg.Provider)),
		zap.String("model", llmCfg.Model),
		zap.Bool("affirmation_fallback", cfg.Workflow.AffirmationFallback),
	)

	return &Runtime{
		Config:    cfg,
		LLMConfig: llmCfg,
		Logger:    logger,
		Level:     level,
		Client:    client,
		Store:     store,
		Engine:    engine,
	}, nil
}

// Close flushes buffered log entries.
func (r *Runtime) Close() {
	_ = r.Logger.Sync()
}

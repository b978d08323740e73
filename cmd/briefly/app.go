package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dusk-indust/briefly/internal/config"
	"github.com/dusk-indust/briefly/internal/gateway"
	"github.com/dusk-indust/briefly/internal/llm"
	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/metrics"
	"github.com/dusk-indust/briefly/internal/notes"
	"github.com/dusk-indust/briefly/internal/orchestrator"
	"github.com/dusk-indust/briefly/internal/source"
)

// app holds the wired components for one process.
type app struct {
	cfg      *config.ProjectConfig
	logger   *slog.Logger
	registry *prometheus.Registry
	pipeline *orchestrator.Pipeline
	closers  []io.Closer
}

// loadConfig reads briefly.yml and applies the global flag overrides.
func loadConfig(flags *globalFlags) (*config.ProjectConfig, error) {
	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	return cfg, nil
}

// newApp wires config, logging, metrics, the tool gateway, the fetchers,
// the completion clients and the pipeline.
func newApp(ctx context.Context, flags *globalFlags, opts ...orchestrator.Option) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr),
		registry: prometheus.NewRegistry(),
	}
	if bad := cfg.Timeouts.Invalid(); len(bad) > 0 {
		a.logger.Warn("invalid timeouts, using defaults", "timeouts", bad)
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	apiKey := cfg.LLM.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("llm: no API key, set $%s", cfg.LLM.APIKeyEnv)
	}
	llmOpts := []llm.OpenAIOption{llm.WithModel(cfg.LLM.Model)}
	if cfg.LLM.BaseURL != "" {
		llmOpts = append(llmOpts, llm.WithBaseURL(cfg.LLM.BaseURL))
	}
	classifier := llm.NewOpenAIClient(apiKey, append(llmOpts, llm.WithTemperature(0))...)
	writer := llm.NewOpenAIClient(apiKey, append(llmOpts, llm.WithTemperature(cfg.LLM.Temperature))...)

	sources, err := a.wireSources(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	m := metrics.New(a.registry)
	opts = append([]orchestrator.Option{
		orchestrator.WithLogger(a.logger),
		orchestrator.WithMetrics(m),
	}, opts...)
	a.pipeline = orchestrator.NewPipeline(orchestrator.ConfigFromProject(*cfg), classifier, writer, sources, opts...)
	return a, nil
}

// wireSources builds the fetchers the config can support. Sources left nil
// fail their step when planned, which the pipeline tolerates.
func (a *app) wireSources(ctx context.Context) (orchestrator.Sources, error) {
	var sources orchestrator.Sources
	cfg := a.cfg

	if cfg.Gateway.Endpoint != "" {
		gw, err := gateway.Dial(ctx, cfg.Gateway.Endpoint, cfg.Gateway.UserID)
		if err != nil {
			return sources, fmt.Errorf("gateway: %w", err)
		}
		a.closers = append(a.closers, gw)
		sources.CodeReview = source.NewGitHubFetcher(gw)
		sources.Issues = source.NewJiraFetcher(gw)
		if cfg.Sources.Notes.Backend == config.NotesBackendGateway {
			sources.Notes = source.NewGatewayNotesFetcher(gw)
		}
	} else {
		a.logger.Warn("no tool gateway configured, code review and issue sources are unavailable")
	}

	if cfg.Sources.Notes.Backend == config.NotesBackendLocal {
		store, err := openNotes(ctx, a.logger, cfg.Sources.Notes.DBPath, cfg.Sources.Notes.ImportDir)
		if err != nil {
			return sources, err
		}
		a.closers = append(a.closers, store)
		sources.Notes = source.NewLocalNotesFetcher(store)
	}
	return sources, nil
}

// openNotes opens the local notes graph and, when dir is set, imports the
// markdown pages in it.
func openNotes(ctx context.Context, logger *slog.Logger, dbPath, dir string) (notes.Store, error) {
	store, err := notes.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return store, nil
	}
	res, err := notes.ImportDir(ctx, store, dir)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("notes imported", "dir", dir, "pages", res.Pages, "links", res.Links, "dangling", len(res.DanglingLinks))
	return store, nil
}

// Close releases the gateway session and the notes store.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

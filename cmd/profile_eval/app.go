package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/profile-evaluator/internal/cache"
	"github.com/jonathan/profile-evaluator/internal/config"
	"github.com/jonathan/profile-evaluator/internal/db"
	"github.com/jonathan/profile-evaluator/internal/evaluation"
	"github.com/jonathan/profile-evaluator/internal/lexicon"
	"github.com/jonathan/profile-evaluator/internal/llm"
	"github.com/jonathan/profile-evaluator/internal/observability"
	"github.com/jonathan/profile-evaluator/internal/types"
)

// appOptions selects which collaborators a command needs
type appOptions struct {
	needStore bool
	noLLM     bool
}

// app holds the collaborators shared by the subcommands
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	lexicon  *lexicon.Lexicon
	client   llm.Client
	database *db.DB
	redis    *cache.RedisCache
	service  *evaluation.Service
	printer  *observability.Printer
}

func newApp(ctx context.Context, cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		printer:  observability.NewPrinter(cmd.ErrOrStderr()),
	}
	a.metrics = observability.NewMetrics(a.registry)

	if err := a.connect(ctx, opts); err != nil {
		a.Close()
		return nil, err
	}

	svcCfg := evaluation.ServiceConfig{
		Lexicon:    a.lexicon,
		LLM:        a.client,
		LLMTimeout: cfg.LLMTimeout(),
		Logger:     logger,
		Metrics:    a.metrics,
	}
	if a.database != nil {
		svcCfg.Store = a.database
	}
	if a.redis != nil {
		svcCfg.Cache = a.redis
	}
	if cfg.Verbose {
		svcCfg.OnProgress = func(e evaluation.ProgressEvent) {
			logger.Info(e.Message, zap.String("step", e.Step))
		}
	}
	a.service = evaluation.NewService(svcCfg)
	return a, nil
}

func (a *app) connect(ctx context.Context, opts appOptions) error {
	var err error
	if a.cfg.LexiconPath != "" {
		a.lexicon, err = lexicon.Load(a.cfg.LexiconPath)
	} else {
		a.lexicon, err = lexicon.Default()
	}
	if err != nil {
		return err
	}

	if a.cfg.UseLLM && !opts.noLLM {
		llmCfg := llm.DefaultGeminiConfig().WithTimeout(a.cfg.LLMTimeout())
		if a.cfg.Model != "" {
			llmCfg = llmCfg.WithModel(llmCfg.Tier, a.cfg.Model)
		}
		if a.client, err = llm.NewClient(ctx, llmCfg, a.cfg.APIKey); err != nil {
			return fmt.Errorf("failed to create language model client: %w", err)
		}
	}

	if opts.needStore {
		if a.cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for this command")
		}
		if a.database, err = db.Connect(ctx, a.cfg.DatabaseURL); err != nil {
			return err
		}
	}

	if a.cfg.RedisURL != "" {
		if a.redis, err = cache.Connect(ctx, a.cfg.RedisURL, a.cfg.CacheTTL()); err != nil {
			// the cache only saves work, so run without it
			a.logger.Warn("redis unavailable, caching disabled", zap.Error(err))
			a.redis = nil
		}
	}
	return nil
}

// Close releases every collaborator and writes the metrics file if requested
func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if metricsFile != "" && a.registry != nil {
		if err := prometheus.WriteToTextfile(metricsFile, a.registry); err != nil {
			a.logger.Warn("failed to write metrics file", zap.String("path", metricsFile), zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// options resolves persona and track from flags over config
func (a *app) options(persona, track string) evaluation.Options {
	if persona == "" {
		persona = a.cfg.Persona
	}
	if track == "" {
		track = a.cfg.Track
	}
	return evaluation.Options{Persona: types.Persona(persona), Track: types.Track(track)}
}

// userID resolves the user from the flag or config
func (a *app) userID(flag string) (uuid.UUID, error) {
	raw := flag
	if raw == "" {
		raw = a.cfg.UserID
	}
	if raw == "" {
		return uuid.Nil, fmt.Errorf("a user id is required (use --user-id or PROFILE_USER_ID)")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id: %w", err)
	}
	return id, nil
}

// readProfile loads a NormalizedProfile JSON file
func readProfile(path string) (*types.NormalizedProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	profile := types.NewNormalizedProfile()
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	return profile, nil
}

// readText reads a raw résumé file
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hr-assist/internal/ai"
	"github.com/spigell/hr-assist/internal/ai/gemini"
	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
	"github.com/spigell/hr-assist/internal/logger"
	"github.com/spigell/hr-assist/internal/metrics"
	"github.com/spigell/hr-assist/internal/screening"
	"github.com/spigell/hr-assist/internal/secrets"
)

// apiKeyEnv lists the environment variables holding the Gemini key.
var apiKeyEnv = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

func newRecorder(cfg MetricsConfig) *metrics.Recorder {
	opts := []metrics.Option{metrics.WithNamespace(cfg.Namespace)}
	if cfg.Runtime {
		opts = append(opts, metrics.WithRuntimeCollectors())
	}
	return metrics.New(opts...)
}

// newScreening builds the screening service. The remote arm is left out,
// with a warning, when AI is disabled or no API key can be found.
func newScreening(ctx context.Context, cfg *Config, recorder *metrics.Recorder, log *zap.Logger) (*screening.Service, error) {
	remote, err := newRemoteAnalyzer(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	controllerOpts := []failover.Option{
		failover.WithThreshold(cfg.Failover.Threshold),
		failover.WithTimeout(cfg.AI.Timeout),
		failover.WithKillSwitch(failover.Combine(
			failover.Static(!cfg.AI.Enabled),
			failover.EnvKillSwitch(nil),
		)),
		failover.WithLogger(log.Named("failover")),
	}
	if path := strings.TrimSpace(cfg.Failover.Journal); path != "" {
		controllerOpts = append(controllerOpts, failover.WithJournal(failover.NewFileJournal(path)))
	}

	deps := screening.Deps{
		Manual: analysis.NewAnalyzer(nil, nil, cfg.Analysis),
		Remote: remote,
		Logger: log.Named("screening"),
	}
	if recorder != nil {
		controllerOpts = append(controllerOpts, failover.WithObserver(recorder))
		deps.Metrics = recorder
	}
	deps.Controller = failover.New(controllerOpts...)

	return screening.New(deps), nil
}

func newRemoteAnalyzer(ctx context.Context, cfg *Config, log *zap.Logger) (ai.Analyzer, error) {
	if !cfg.AI.Enabled {
		log.Info("remote analysis disabled by configuration")
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.AI.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.AI.APIKey,
		File:  cfg.AI.APIKeyFile,
		Env:   apiKeyEnv,
	})
	if err != nil {
		log.Warn("remote analysis unavailable, every call uses manual analysis",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'ai.api-key-file' key in the configuration file"),
		)
		return nil, nil
	}

	genLogger := logger.WithCommonFields(log, "gemini", "").With(zap.Int("ai_retry_attempts", cfg.AI.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.AI.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	gateway, err := ai.NewGateway(generator, cfg.AI.Models, log.Named("gateway"), cfg.AI.MaxLogLength)
	if err != nil {
		return nil, fmt.Errorf("building ai gateway: %w", err)
	}

	log.Info("remote analysis enabled", zap.Strings("models", gateway.Models()))

	return gemini.NewAnalyzer(gateway, gemini.Options{
		MaxSkills:     cfg.Analysis.MaxSkills,
		SearchResults: cfg.Analysis.SearchResults,
		MaxInputRunes: cfg.AI.MaxInputRunes,
	}, log.Named("gemini")), nil
}

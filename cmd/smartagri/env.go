package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/smartagri/internal/config"
	"github.com/mark3labs/smartagri/internal/history"
	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/metrics"
	"github.com/mark3labs/smartagri/internal/nats"
	"github.com/mark3labs/smartagri/internal/recommend"
)

// env is the per-invocation wiring shared by every command.
type env struct {
	cfg     *config.Config
	tr      *i18n.Table
	client  *recommend.Client
	metrics *metrics.PrometheusRecorder
}

// loadEnv loads config, applies root flag overrides, and builds the client.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.apiURL != "" {
		cfg.APIURL = rootFlags.apiURL
	}
	if rootFlags.language != "" {
		cfg.Language = rootFlags.language
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	tr, err := i18n.Load(strings.ToLower(cfg.Language))
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	rec := metrics.NewPrometheusRecorder()
	client := recommend.NewClient(cfg.APIURL,
		recommend.WithCredential(func() string { return cfg.Token }),
		recommend.WithTimeout(cfg.Timeout),
		recommend.WithRecorder(rec),
	)

	logger.Debug("Using recommendation service at %s (language=%s)", cfg.APIURL, tr.Language())
	return &env{cfg: cfg, tr: tr, client: client, metrics: rec}, nil
}

// openHistory starts the embedded store. The returned close func is never nil.
func (e *env) openHistory(ctx context.Context) (*history.Store, func(), error) {
	embedded, err := nats.Start(ctx, e.cfg.HistoryDir())
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open history: %w", err)
	}
	closeFn := func() {
		if err := embedded.Close(); err != nil {
			logger.Warn("Failed to close history store: %v", err)
		}
	}
	return history.NewStore(embedded.JetStream, embedded.Stream), closeFn, nil
}

// flushMetrics exports submission metrics when metrics_file is configured.
func (e *env) flushMetrics() {
	if e.cfg.MetricsFile == "" {
		return
	}
	if err := e.metrics.WriteTextfile(e.cfg.MetricsFile); err != nil {
		logger.Warn("Failed to write metrics: %v", err)
	}
}

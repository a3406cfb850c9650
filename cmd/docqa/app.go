package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/extract"
	"docqa/internal/logger"
	"docqa/internal/metrics"
	"docqa/internal/qaparser"
	"docqa/internal/service"
	"docqa/internal/vectorstore"
)

// app holds the assembled components shared by every subcommand.
type app struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	registry *extract.Registry
	service  *service.QAService
}

func loadConfig() (*config.AppConfig, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Register()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Error("Metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	emb, err := embedding.New(cfg.Embedder, log)
	if err != nil {
		return nil, err
	}
	build, err := vectorstore.NewBuilder(cfg.Index.Type)
	if err != nil {
		return nil, err
	}

	registry := extract.NewRegistry()
	svc := service.NewQAService(registry, qaparser.New(), emb, build, log)

	log.Info("docqa started",
		zap.String("embedder", emb.Name()),
		zap.String("index", cfg.Index.Type),
		zap.Strings("formats", registry.Supported()),
	)
	return &app{cfg: cfg, logger: log, registry: registry, service: svc}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

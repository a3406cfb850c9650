// Package embedding selects and instruments the text embedder shared by a
// document's corpus and all of its queries.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding/openai"
	"docqa/internal/embedding/tfidf"
	"docqa/internal/metrics"
)

// New builds the embedder named by cfg.Type, wrapped with logging and metrics.
// The result is meant to be built once and reused across uploads.
func New(cfg config.EmbedderConfig, logger *zap.Logger) (domain.Embedder, error) {
	var inner domain.Embedder
	switch cfg.Type {
	case "tfidf":
		inner = tfidf.NewEmbedder()
	case "openai", "":
		oc := cfg.OpenAI
		if oc == nil {
			oc = &config.OpenAIEmbedderConfig{}
		}
		inner = openai.NewClient(openai.Config{
			BaseURL:    oc.BaseURL,
			APIKeyEnv:  oc.APIKeyEnv,
			Model:      oc.Model,
			Dimensions: oc.Dimensions,
			BatchSize:  oc.BatchSize,
			Timeout:    time.Duration(oc.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
	return NewInstrumented(inner, logger), nil
}

// Instrumented wraps an Embedder with debug logging and Prometheus metrics.
type Instrumented struct {
	inner  domain.Embedder
	logger *zap.Logger
}

// NewInstrumented wraps inner. A nil logger disables logging.
func NewInstrumented(inner domain.Embedder, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{inner: inner, logger: logger}
}

// Name returns the wrapped embedder's name.
func (e *Instrumented) Name() string { return e.inner.Name() }

// Dimension returns the wrapped embedder's dimension.
func (e *Instrumented) Dimension() int { return e.inner.Dimension() }

// Prepare delegates to the wrapped embedder.
func (e *Instrumented) Prepare(ctx context.Context, corpus []string) error {
	if err := e.inner.Prepare(ctx, corpus); err != nil {
		e.logger.Error("Embedder prepare failed", zap.String("embedder", e.Name()), zap.Error(err))
		return fmt.Errorf("prepare %s: %w", e.Name(), err)
	}
	return nil
}

// Embed delegates to the wrapped embedder and records the request.
func (e *Instrumented) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	name := e.Name()
	start := time.Now()

	vecs, err := e.inner.Embed(ctx, texts)

	duration := time.Since(start)
	metrics.EmbeddingRequestDuration.WithLabelValues(name).Observe(duration.Seconds())
	metrics.EmbeddedTextsTotal.WithLabelValues(name).Add(float64(len(texts)))
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(name, "error").Inc()
		e.logger.Error("Embedding request failed",
			zap.String("embedder", name),
			zap.Int("texts", len(texts)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("embed: %w", err)
	}
	metrics.EmbeddingRequestsTotal.WithLabelValues(name, "success").Inc()

	e.logger.Debug("Embedding request completed",
		zap.String("embedder", name),
		zap.Int("texts", len(texts)),
		zap.Int("dimensions", e.Dimension()),
		zap.Duration("duration", duration),
	)
	return vecs, nil
}

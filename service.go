// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package relevit

import (
	"context"
	"log/slog"

	"github.com/poiesic/relevit/ai"
	"github.com/poiesic/relevit/ai/openai"
	"github.com/poiesic/relevit/analytics"
	"github.com/poiesic/relevit/backend"
	"github.com/poiesic/relevit/backend/opensearch"
	"github.com/poiesic/relevit/config"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/format"
	"github.com/poiesic/relevit/fusion"
	"github.com/poiesic/relevit/resolve"
)

// Service wires the retrieval stack behind one handle: the backend client,
// the optional embedder, the cascading resolver, the fusion engine, and
// the analytics layer. All components share the configuration given at
// construction and hold no per-request state.
type Service struct {
	client   *opensearch.Client
	searcher backend.Searcher
	embedder ai.Embedder
	resolver *resolve.Resolver
	engine   *fusion.Engine
	analyzer *analytics.Analyzer
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger   *slog.Logger
	searcher backend.Searcher
	embedder ai.Embedder
}

// WithLogger sets a custom logger for every component.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSearcher replaces the search backend built from the configuration.
// Intended for tests and alternative engines; the configured client is
// still constructed for cluster probes.
func WithSearcher(searcher backend.Searcher) ServiceOption {
	return func(o *serviceOptions) {
		o.searcher = searcher
	}
}

// WithEmbedder replaces the embedder built from the configuration.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

func NewService(cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	// Apply options
	options := &serviceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := options.logger

	// Backend client
	client, err := opensearch.NewClient(cfg.Backend.Endpoint, cfg.Backend.Index,
		opensearch.WithBasicAuth(cfg.Backend.Username, cfg.Backend.Password),
		opensearch.WithTimeout(cfg.Backend.Timeout()),
		opensearch.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	searcher := backend.Searcher(client)
	if options.searcher != nil {
		searcher = options.searcher
	}

	// Embedder, only when a model is configured
	embedder := options.embedder
	if embedder == nil && cfg.Embedding.Enabled() {
		aiCfg := ai.NewConfig(
			ai.WithEmbeddingHost(cfg.Embedding.Host),
			ai.WithEmbeddingModel(cfg.Embedding.Model),
		)
		embedder, err = openai.NewEmbedder(aiCfg)
		if err != nil {
			return nil, err
		}
	}
	if embedder == nil {
		logger.Info("no embedding model configured, searches run lexical-only")
	}

	// Analytics layer (owns the worker pool)
	analyzer, err := analytics.NewAnalyzer(searcher, analytics.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	// Cascading resolver
	resolver, err := resolve.NewResolver(searcher,
		resolve.WithLogger(logger),
		resolve.WithThresholds(core.FieldRID, cfg.Fields.RID.Thresholds()),
		resolve.WithThresholds(core.FieldDocID, cfg.Fields.DocID.Thresholds()))
	if err != nil {
		analyzer.Release()
		return nil, err
	}

	// Fusion engine
	engineOpts := []fusion.Option{
		fusion.WithLogger(logger),
		fusion.WithVectorField(cfg.Search.VectorField),
	}
	if embedder != nil {
		engineOpts = append(engineOpts, fusion.WithEmbedder(embedder))
	}
	if len(cfg.Search.FallbackSuggestions) > 0 {
		engineOpts = append(engineOpts, fusion.WithFallbackSuggestions(cfg.Search.FallbackSuggestions))
	}
	engine, err := fusion.NewEngine(searcher, engineOpts...)
	if err != nil {
		analyzer.Release()
		return nil, err
	}

	return &Service{
		client:   client,
		searcher: searcher,
		embedder: embedder,
		resolver: resolver,
		engine:   engine,
		analyzer: analyzer,
		logger:   logger,
	}, nil
}

func (s *Service) Close() error {
	// Stop the analytics worker pool
	s.analyzer.Release()
	return nil
}

// Resolve runs the cascading identifier lookup and shapes the outcome into
// the caller-facing payload.
func (s *Service) Resolve(ctx context.Context, field core.IdentifierField, query string) (*format.ResolutionPayload, error) {
	resolution, err := s.resolver.Resolve(ctx, field, query)
	if err != nil {
		return nil, err
	}
	return format.Resolution(resolution), nil
}

// Search runs the hybrid query and shapes the fused ranking into the
// caller-facing payload.
func (s *Service) Search(ctx context.Context, query core.HybridQuery, filters core.Filters) (*format.SearchPayload, error) {
	result, err := s.engine.Search(ctx, query, filters)
	if err != nil {
		return nil, err
	}
	return format.Search(result), nil
}

// Suggest returns completion suggestions for a partial query.
func (s *Service) Suggest(ctx context.Context, prefix string, size int) []string {
	return s.engine.Suggest(ctx, prefix, size)
}

// Info probes the configured cluster for its name and engine version.
func (s *Service) Info(ctx context.Context) (*opensearch.ClusterInfo, error) {
	return s.client.Info(ctx)
}

func (s *Service) Resolver() *resolve.Resolver {
	return s.resolver
}

func (s *Service) Engine() *fusion.Engine {
	return s.engine
}

func (s *Service) Analyzer() *analytics.Analyzer {
	return s.analyzer
}

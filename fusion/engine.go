package fusion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/relevit/ai"
	"github.com/poiesic/relevit/backend"
	"github.com/poiesic/relevit/core"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 10

	// candidateMultiple oversizes each leg so the fusion step has enough
	// material to re-rank before truncating to the page size.
	candidateMultiple = 2

	aggSize = 100

	defaultVectorField = "event_vector"
)

// lexicalFields are the boosted fields the text leg searches.
var lexicalFields = []string{
	"rid^2",
	"rid.prefix^1.5",
	"docid^2",
	"docid.prefix^1.5",
	"event_title^3",
	"event_theme^2",
	"event_highlight^2",
	"country^1.5",
	"year^1.5",
}

// Engine fuses lexical and semantic relevance into one ranked list.
type Engine struct {
	searcher      backend.Searcher
	embedder      ai.Embedder
	vectorField   string
	fallbackTerms []string
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithEmbedder sets the embedding provider for the vector leg. Without one
// every search runs text-only.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(e *Engine) error {
		e.embedder = embedder
		return nil
	}
}

// WithVectorField sets the dense vector field queried by the k-NN leg.
// Default is "event_vector".
func WithVectorField(field string) Option {
	return func(e *Engine) error {
		if field != "" {
			e.vectorField = field
		}
		return nil
	}
}

// WithFallbackSuggestions replaces the static terms served when the
// suggestion lookup fails or matches nothing.
func WithFallbackSuggestions(terms []string) Option {
	return func(e *Engine) error {
		if terms != nil {
			e.fallbackTerms = terms
		}
		return nil
	}
}

// NewEngine creates a fusion engine over the given search backend.
func NewEngine(searcher backend.Searcher, opts ...Option) (*Engine, error) {
	if searcher == nil {
		return nil, ErrBackendRequired
	}

	e := &Engine{
		searcher:      searcher,
		vectorField:   defaultVectorField,
		fallbackTerms: defaultFallbackTerms,
		logger:        slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search runs the hybrid query and returns the fused ranking truncated to
// the page size.
//
// The two legs are dispatched concurrently. A failed embedding or a single
// failed leg degrades to the surviving leg's results; only the failure of
// both legs is an error. A search degraded to text-only is byte-identical
// to calling with a semantic boost of zero.
func (e *Engine) Search(ctx context.Context, query core.HybridQuery, filters core.Filters) (*core.FusedResult, error) {
	if err := core.ValidateHybridQuery(query); err != nil {
		return nil, err
	}
	if err := core.ValidateFilters(filters); err != nil {
		return nil, err
	}
	if query.PageSize <= 0 {
		query.PageSize = defaultPageSize
	}

	text := strings.TrimSpace(query.Text)

	// The vector leg runs only when every prerequisite holds. Otherwise
	// boost stays 0 and the call below is exactly the text-only search.
	boost := 0.0
	var vector []float32
	if query.SemanticBoost > 0 && e.embedder != nil && text != "" {
		embedded, err := e.embedder.EmbedText(ctx, text)
		if err != nil {
			e.logger.Warn("embedding failed, degrading to text-only search", "err", err)
		} else {
			vector = embedded
			boost = query.SemanticBoost
		}
	}

	textReq := e.lexicalRequest(text, filters, query.PageSize)

	var (
		textResp, vectorResp *backend.Response
		textErr, vectorErr   error
	)

	start := time.Now()
	if vector == nil {
		textResp, textErr = e.searcher.Search(ctx, textReq)
		if textErr != nil {
			return nil, textErr
		}
	} else {
		vectorReq := e.vectorRequest(vector, filters, query.PageSize)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			// Errors are captured per leg so one failure cannot cancel
			// the other.
			textResp, textErr = e.searcher.Search(gctx, textReq)
			return nil
		})
		g.Go(func() error {
			vectorResp, vectorErr = e.searcher.Search(gctx, vectorReq)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		switch {
		case textErr != nil && vectorErr != nil:
			return nil, fmt.Errorf("both search legs failed: %w", errors.Join(textErr, vectorErr))
		case textErr != nil:
			e.logger.Warn("text leg failed, returning vector results only", "err", textErr)
			textResp = nil
			boost = 1.0
		case vectorErr != nil:
			e.logger.Warn("vector leg failed, returning text results only", "err", vectorErr)
			vectorResp = nil
			boost = 0
		}
	}
	duration := time.Since(start)

	var textHits, vectorHits []backend.Hit
	if textResp != nil {
		textHits = textResp.Hits
	}
	if vectorResp != nil {
		vectorHits = vectorResp.Hits
	}

	candidates, err := fuseCandidates(textHits, vectorHits, boost)
	if err != nil {
		return nil, err
	}
	sortCandidates(candidates, textHits)

	union := len(candidates)
	if len(candidates) > query.PageSize {
		candidates = candidates[:query.PageSize]
	}

	result := &core.FusedResult{
		Query:           query.Text,
		Filters:         filters,
		Candidates:      candidates,
		TotalCandidates: union,
		TextLegCount:    len(textHits),
		VectorLegCount:  len(vectorHits),
		SemanticUsed:    vector != nil && vectorErr == nil,
		Duration:        duration,
	}
	if textResp != nil && len(textResp.Buckets) > 0 {
		result.Aggregations = textResp.Buckets
	}

	e.logger.Debug("hybrid search complete",
		"query", query.Text,
		"candidates", union,
		"returned", len(candidates),
		"semantic", result.SemanticUsed,
		"duration", duration)

	return result, nil
}

// lexicalRequest builds the text leg. Blank text becomes a match-all query
// so filter-only searches still browse the corpus.
func (e *Engine) lexicalRequest(text string, filters core.Filters, pageSize int) *backend.Request {
	var query backend.Query
	if text == "" {
		query = backend.MatchAllQuery{}
	} else {
		query = backend.MultiMatchQuery{
			Query:         text,
			Fields:        lexicalFields,
			Type:          "best_fields",
			Operator:      "or",
			Fuzziness:     "AUTO",
			PrefixLength:  1,
			MaxExpansions: 50,
		}
	}
	if clauses := backend.FilterClauses(filters); len(clauses) > 0 {
		query = backend.BoolQuery{Must: []backend.Query{query}, Filter: clauses}
	}

	req := &backend.Request{
		Query: query,
		Size:  candidateMultiple * pageSize,
		Sort:  []backend.Sort{{Field: "_score", Desc: true}},
	}

	aggs := make(map[string]backend.Agg)
	if filters.Year != 0 || filters.YearFrom != 0 || filters.YearTo != 0 {
		aggs["count_by_year"] = backend.TermsAgg{Field: "year", Size: aggSize}
	}
	if filters.Country != "" {
		aggs["count_by_country"] = backend.TermsAgg{Field: "country", Size: aggSize}
	}
	if len(aggs) > 0 {
		req.Aggs = aggs
	}
	return req
}

// vectorRequest builds the k-NN leg, scoped by the same filters as the
// text leg.
func (e *Engine) vectorRequest(vector []float32, filters core.Filters, pageSize int) *backend.Request {
	knn := backend.KNNQuery{
		Field:  e.vectorField,
		Vector: vector,
		K:      candidateMultiple * pageSize,
	}
	if clauses := backend.FilterClauses(filters); len(clauses) > 0 {
		if len(clauses) == 1 {
			knn.Filter = clauses[0]
		} else {
			knn.Filter = backend.BoolQuery{Filter: clauses}
		}
	}
	return &backend.Request{
		Query: knn,
		Size:  candidateMultiple * pageSize,
	}
}

package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/relevit/backend"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/policy"
)

const (
	// candidateSize bounds every tier's backend call and the cross-field
	// terms aggregation.
	candidateSize = 100

	maxTopMatches = 3
)

// Resolver finds events by identifier using exact, prefix and fuzzy lookups
// tried in order, returning at the first tier with trustworthy matches.
type Resolver struct {
	searcher   backend.Searcher
	thresholds map[core.IdentifierField]policy.Thresholds
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithThresholds replaces the acceptance thresholds for one identifier
// field. Defaults are policy.Defaults().
func WithThresholds(field core.IdentifierField, thresholds policy.Thresholds) Option {
	return func(r *Resolver) error {
		if err := thresholds.Validate(); err != nil {
			return err
		}
		r.thresholds[field] = thresholds
		return nil
	}
}

// NewResolver creates a resolver over the given search backend.
func NewResolver(searcher backend.Searcher, opts ...Option) (*Resolver, error) {
	if searcher == nil {
		return nil, ErrBackendRequired
	}

	r := &Resolver{
		searcher:   searcher,
		thresholds: policy.Defaults(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve looks up query as an identifier in the given field.
func (r *Resolver) Resolve(ctx context.Context, field core.IdentifierField, query string) (*core.Resolution, error) {
	return r.ResolveWithMonitor(ctx, field, query, nil)
}

// ResolveWithMonitor looks up query as an identifier in the given field,
// reporting each tier's progress to the monitor.
//
// The cascade is strictly sequential: exact is tried first, prefix only when
// exact returned no hits, fuzzy only when prefix accepted nothing or too
// much. A backend error at any tier is returned as-is.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, field core.IdentifierField, query string, monitor ResolveMonitor) (*core.Resolution, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	thresholds, ok := r.thresholds[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownField, field)
	}
	if len(query) < thresholds.MinQueryLength {
		return nil, fmt.Errorf("%w: field %q requires at least %d characters, got %d",
			core.ErrQueryTooShort, field, thresholds.MinQueryLength, len(query))
	}

	monitor.Start(field, query)

	// 1. Exact lookup on the keyword sub-field. Any hit here is a
	// field-value equality, so the tier returns whenever the backend
	// found something.
	resp, err := r.lookup(ctx, backend.TermQuery{Field: string(field) + ".keyword", Value: query}, field, false)
	if err != nil {
		r.logger.Error("exact lookup failed", "field", field, "query", query, "err", err)
		return nil, err
	}
	accepted := acceptHits(resp.Hits, thresholds.AcceptExact)
	monitor.AfterExact(len(resp.Hits), len(accepted))
	if len(resp.Hits) > 0 {
		confidence := policy.ConfidenceFor(core.TierExact, len(accepted), thresholds.MaxPrefixResults)
		resolution, err := r.buildResolution(field, query, core.TierExact, confidence, accepted, resp)
		if err != nil {
			return nil, err
		}
		monitor.Finish(resolution)
		return resolution, nil
	}

	// 2. Prefix lookup on the edge-ngram sub-field.
	resp, err = r.lookup(ctx, backend.MatchQuery{Field: string(field) + ".prefix", Query: query}, field, true)
	if err != nil {
		r.logger.Error("prefix lookup failed", "field", field, "query", query, "err", err)
		return nil, err
	}
	accepted = acceptHits(resp.Hits, thresholds.AcceptPrefix)
	monitor.AfterPrefix(len(resp.Hits), len(accepted))
	switch {
	case len(accepted) == 0:
		// Miss, fall through to fuzzy.
	case len(accepted) > thresholds.MaxPrefixResults:
		// A prefix matching this many records is too broad to trust.
		monitor.PrefixOverflow(len(accepted))
	default:
		confidence := policy.ConfidenceFor(core.TierPrefix, len(accepted), thresholds.MaxPrefixResults)
		resolution, err := r.buildResolution(field, query, core.TierPrefix, confidence, accepted, resp)
		if err != nil {
			return nil, err
		}
		monitor.Finish(resolution)
		return resolution, nil
	}

	// 3. Fuzzy lookup on the ngram-analyzed base field.
	resp, err = r.lookup(ctx, backend.MatchQuery{Field: string(field), Query: query}, field, true)
	if err != nil {
		r.logger.Error("fuzzy lookup failed", "field", field, "query", query, "err", err)
		return nil, err
	}
	accepted = acceptHits(resp.Hits, thresholds.AcceptFuzzy)
	monitor.AfterFuzzy(len(resp.Hits), len(accepted))

	if len(resp.Hits) == 0 {
		// Nothing in the corpus resembles the query. Not an error.
		resolution := &core.Resolution{
			Query:      query,
			Field:      field,
			Tier:       core.TierFuzzy,
			Confidence: core.ConfidenceLow,
			TopMatches: []core.Match{},
			CrossField: []core.Bucket{},
		}
		monitor.Finish(resolution)
		return resolution, nil
	}

	if len(accepted) == 0 {
		// No hit passed the floor; keep the raw top 3 as a best effort
		// rather than returning empty.
		accepted = resp.Hits
		if len(accepted) > maxTopMatches {
			accepted = accepted[:maxTopMatches]
		}
		monitor.FuzzyFallback(len(accepted))
	}

	confidence := policy.ConfidenceFor(core.TierFuzzy, len(accepted), thresholds.MaxPrefixResults)
	resolution, err := r.buildResolution(field, query, core.TierFuzzy, confidence, accepted, resp)
	if err != nil {
		return nil, err
	}
	monitor.Finish(resolution)
	return resolution, nil
}

// lookup runs one tier's backend call with the shared candidate size and
// the cross-field terms aggregation.
func (r *Resolver) lookup(ctx context.Context, query backend.Query, field core.IdentifierField, sorted bool) (*backend.Response, error) {
	other := field.CrossField()
	req := &backend.Request{
		Query: query,
		Size:  candidateSize,
		Aggs: map[string]backend.Agg{
			crossFieldAggName(field): backend.TermsAgg{Field: string(other) + ".keyword", Size: candidateSize},
		},
	}
	if sorted {
		req.Sort = []backend.Sort{{Field: "_score", Desc: true}}
	}
	return r.searcher.Search(ctx, req)
}

// buildResolution shapes one tier's accepted hits into a Resolution.
// total counts the accepted set, never the raw backend hits.
func (r *Resolver) buildResolution(field core.IdentifierField, query string, tier core.MatchTier, confidence core.Confidence, accepted []backend.Hit, resp *backend.Response) (*core.Resolution, error) {
	top := accepted
	if len(top) > maxTopMatches {
		top = top[:maxTopMatches]
	}

	matches := make([]core.Match, 0, len(top))
	for _, hit := range top {
		event, err := hit.Event()
		if err != nil {
			return nil, fmt.Errorf("decoding hit %s: %w", hit.ID, err)
		}
		matches = append(matches, core.Match{
			Score: core.RoundScore(hit.Score),
			Event: event,
		})
	}

	crossField := resp.Buckets[crossFieldAggName(field)]
	if crossField == nil {
		crossField = []core.Bucket{}
	}

	return &core.Resolution{
		Query:      query,
		Field:      field,
		Tier:       tier,
		Confidence: confidence,
		TotalCount: len(accepted),
		TopMatches: matches,
		CrossField: crossField,
	}, nil
}

func crossFieldAggName(field core.IdentifierField) string {
	return string(field.CrossField()) + "_aggregation"
}

func acceptHits(hits []backend.Hit, accept func(float64) bool) []backend.Hit {
	accepted := make([]backend.Hit, 0, len(hits))
	for _, hit := range hits {
		if accept(hit.Score) {
			accepted = append(accepted, hit)
		}
	}
	return accepted
}

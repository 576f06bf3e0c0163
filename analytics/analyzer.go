package analytics

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/relevit/backend"
	"github.com/poiesic/relevit/core"
)

const (
	statsAggName   = "attendance_stats"
	yearAggName    = "events_by_year"
	countryAggName = "events_by_country"
	themeAggName   = "top_themes"

	defaultListSize = 10
	maxListSize     = 100
)

// AttendanceSummary aggregates attendance over the scoped events.
// Min, Max, and Sum are whole attendee counts; Avg keeps two decimals.
type AttendanceSummary struct {
	Count int     `json:"count"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Avg   float64 `json:"avg"`
	Sum   int     `json:"sum"`
}

// Overview is a joined snapshot of the three corpus breakdowns.
type Overview struct {
	ByYear    []core.Bucket `json:"events_by_year"`
	ByCountry []core.Bucket `json:"events_by_country"`
	TopThemes []core.Bucket `json:"top_themes"`
}

// ListOptions control pagination and ordering for List.
type ListOptions struct {
	// Size is the page size, clamped to [1, 100]. Zero means 10.
	Size int

	// From is the pagination offset. Negative values clamp to zero.
	From int

	// SortBy is the sort field. Empty means "year".
	SortBy string

	// Ascending flips the default descending order.
	Ascending bool
}

// EventPage is one page of the event listing.
type EventPage struct {
	Total  int           `json:"total"`
	Events []*core.Event `json:"events"`
}

// Analyzer runs aggregation-only queries against the events index.
type Analyzer struct {
	searcher backend.Searcher
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for the Overview fan-out.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *Analyzer) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if a.pool != nil {
			a.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// NewAnalyzer creates an analyzer over the given search backend.
func NewAnalyzer(searcher backend.Searcher, opts ...Option) (*Analyzer, error) {
	if searcher == nil {
		return nil, ErrBackendRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		searcher: searcher,
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			a.Release()
			return nil, err
		}
	}

	return a, nil
}

// Release releases the worker pool.
// The analyzer should not be used after calling Release.
func (a *Analyzer) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// AttendanceStats computes attendance statistics over the events selected
// by the filters. An unfiltered call spans the whole index. An empty scope
// yields the zero summary, not an error.
func (a *Analyzer) AttendanceStats(ctx context.Context, filters core.Filters) (*AttendanceSummary, error) {
	if err := core.ValidateFilters(filters); err != nil {
		return nil, err
	}

	req := &backend.Request{
		Aggs: map[string]backend.Agg{
			statsAggName: backend.StatsAgg{Field: "event_count"},
		},
	}
	if clauses := backend.FilterClauses(filters); len(clauses) > 0 {
		req.Query = backend.BoolQuery{Filter: clauses}
	}

	resp, err := a.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	stats := resp.Stats[statsAggName]
	return &AttendanceSummary{
		Count: stats.Count,
		Min:   int(stats.Min),
		Max:   int(stats.Max),
		Avg:   math.Round(stats.Avg*100) / 100,
		Sum:   int(stats.Sum),
	}, nil
}

// YearBreakdown returns the per-year event distribution with attendance
// metrics, oldest year first.
func (a *Analyzer) YearBreakdown(ctx context.Context) ([]core.Bucket, error) {
	req := &backend.Request{
		Aggs: map[string]backend.Agg{
			yearAggName: backend.TermsAgg{
				Field:      "year",
				Size:       10,
				OrderByKey: true,
				SubAggs: map[string]backend.Agg{
					"avg_attendance":   backend.AvgAgg{Field: "event_count"},
					"total_attendance": backend.SumAgg{Field: "event_count"},
					"min_attendance":   backend.MinAgg{Field: "event_count"},
					"max_attendance":   backend.MaxAgg{Field: "event_count"},
				},
			},
		},
	}
	return a.breakdown(ctx, req, yearAggName)
}

// CountryBreakdown returns the per-country event distribution with average
// attendance. A non-zero year scopes the breakdown to that year.
func (a *Analyzer) CountryBreakdown(ctx context.Context, year int) ([]core.Bucket, error) {
	req := &backend.Request{
		Aggs: map[string]backend.Agg{
			countryAggName: backend.TermsAgg{
				Field: "country",
				Size:  10,
				SubAggs: map[string]backend.Agg{
					"avg_attendance": backend.AvgAgg{Field: "event_count"},
				},
			},
		},
	}
	if year != 0 {
		req.Query = backend.TermQuery{Field: "year", Value: year}
	}
	return a.breakdown(ctx, req, countryAggName)
}

// ThemeBreakdown returns the most frequent event themes.
func (a *Analyzer) ThemeBreakdown(ctx context.Context) ([]core.Bucket, error) {
	req := &backend.Request{
		Aggs: map[string]backend.Agg{
			themeAggName: backend.TermsAgg{Field: "event_theme.keyword", Size: 20},
		},
	}
	return a.breakdown(ctx, req, themeAggName)
}

func (a *Analyzer) breakdown(ctx context.Context, req *backend.Request, name string) ([]core.Bucket, error) {
	resp, err := a.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	buckets := resp.Buckets[name]
	if buckets == nil {
		buckets = []core.Bucket{}
	}
	return buckets, nil
}

// Overview runs the three breakdowns concurrently on the worker pool and
// joins the results. Any breakdown failure fails the overview.
func (a *Analyzer) Overview(ctx context.Context) (*Overview, error) {
	var (
		overview                      Overview
		yearErr, countryErr, themeErr error
	)

	tasks := []func(){
		func() { overview.ByYear, yearErr = a.YearBreakdown(ctx) },
		func() { overview.ByCountry, countryErr = a.CountryBreakdown(ctx, 0) },
		func() { overview.TopThemes, themeErr = a.ThemeBreakdown(ctx) },
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		task := task
		if err := a.pool.Submit(func() {
			defer wg.Done()
			task()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := errors.Join(yearErr, countryErr, themeErr); err != nil {
		return nil, err
	}
	return &overview, nil
}

// List returns one page of events ordered by a document field. Match-all
// with a field sort browses the corpus without scoring.
func (a *Analyzer) List(ctx context.Context, opts ListOptions) (*EventPage, error) {
	size := opts.Size
	if size <= 0 {
		size = defaultListSize
	}
	if size > maxListSize {
		size = maxListSize
	}
	from := opts.From
	if from < 0 {
		from = 0
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "year"
	}

	req := &backend.Request{
		Query: backend.MatchAllQuery{},
		Size:  size,
		From:  from,
		Sort: []backend.Sort{{
			Field:        sortBy,
			Desc:         !opts.Ascending,
			UnmappedType: "long",
		}},
	}

	resp, err := a.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	events := make([]*core.Event, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		event, err := hit.Event()
		if err != nil {
			a.logger.Warn("skipping undecodable event", "id", hit.ID, "err", err)
			continue
		}
		events = append(events, event)
	}

	return &EventPage{Total: resp.Total, Events: events}, nil
}

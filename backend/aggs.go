package backend

// Agg is a structured aggregation description. Source renders it as a
// JSON-serializable map in the backend's aggregation DSL.
type Agg interface {
	Source() map[string]any
}

// TermsAgg buckets documents by distinct field values. When OrderByKey is
// set the buckets come back sorted by key ascending instead of by count.
// SubAggs compute nested metrics per bucket.
type TermsAgg struct {
	Field      string
	Size       int
	OrderByKey bool
	SubAggs    map[string]Agg
}

func (a TermsAgg) Source() map[string]any {
	terms := map[string]any{"field": a.Field}
	if a.Size > 0 {
		terms["size"] = a.Size
	}
	if a.OrderByKey {
		terms["order"] = map[string]any{"_key": "asc"}
	}
	body := map[string]any{"terms": terms}
	if len(a.SubAggs) > 0 {
		subs := make(map[string]any, len(a.SubAggs))
		for name, sub := range a.SubAggs {
			subs[name] = sub.Source()
		}
		body["aggs"] = subs
	}
	return body
}

// StatsAgg computes count, min, max, avg and sum over a numeric field in
// a single pass.
type StatsAgg struct {
	Field string
}

func (a StatsAgg) Source() map[string]any {
	return map[string]any{"stats": map[string]any{"field": a.Field}}
}

// AvgAgg computes the mean of a numeric field.
type AvgAgg struct {
	Field string
}

func (a AvgAgg) Source() map[string]any {
	return map[string]any{"avg": map[string]any{"field": a.Field}}
}

// SumAgg computes the total of a numeric field.
type SumAgg struct {
	Field string
}

func (a SumAgg) Source() map[string]any {
	return map[string]any{"sum": map[string]any{"field": a.Field}}
}

// MinAgg computes the minimum of a numeric field.
type MinAgg struct {
	Field string
}

func (a MinAgg) Source() map[string]any {
	return map[string]any{"min": map[string]any{"field": a.Field}}
}

// MaxAgg computes the maximum of a numeric field.
type MaxAgg struct {
	Field string
}

func (a MaxAgg) Source() map[string]any {
	return map[string]any{"max": map[string]any{"field": a.Field}}
}

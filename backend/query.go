package backend

// Query is a structured query description. Source renders it as a
// JSON-serializable map in the backend's query DSL.
type Query interface {
	Source() map[string]any
}

// TermQuery matches documents whose field equals the value exactly.
// Identifier lookups issue it against keyword sub-fields.
type TermQuery struct {
	Field string
	Value any
}

func (q TermQuery) Source() map[string]any {
	return map[string]any{"term": map[string]any{q.Field: q.Value}}
}

// MatchQuery is an analyzed full-text match on a single field. When
// Fuzziness is set the match tolerates edits, anchored on the first
// PrefixLength characters and bounded by MaxExpansions candidate terms.
type MatchQuery struct {
	Field         string
	Query         string
	Fuzziness     string
	PrefixLength  int
	MaxExpansions int
}

func (q MatchQuery) Source() map[string]any {
	body := map[string]any{"query": q.Query}
	if q.Fuzziness != "" {
		body["fuzziness"] = q.Fuzziness
		body["prefix_length"] = q.PrefixLength
		if q.MaxExpansions > 0 {
			body["max_expansions"] = q.MaxExpansions
		}
	}
	return map[string]any{"match": map[string]any{q.Field: body}}
}

// MultiMatchQuery searches several fields at once. Fields may carry boost
// suffixes ("event_title^3").
type MultiMatchQuery struct {
	Query         string
	Fields        []string
	Type          string
	Operator      string
	Fuzziness     string
	PrefixLength  int
	MaxExpansions int
}

func (q MultiMatchQuery) Source() map[string]any {
	body := map[string]any{
		"query":  q.Query,
		"fields": q.Fields,
	}
	if q.Type != "" {
		body["type"] = q.Type
	}
	if q.Operator != "" {
		body["operator"] = q.Operator
	}
	if q.Fuzziness != "" {
		body["fuzziness"] = q.Fuzziness
		body["prefix_length"] = q.PrefixLength
		if q.MaxExpansions > 0 {
			body["max_expansions"] = q.MaxExpansions
		}
	}
	return map[string]any{"multi_match": body}
}

// MatchPhrasePrefixQuery matches phrases whose final term is a prefix,
// expanding it into at most MaxExpansions terms.
type MatchPhrasePrefixQuery struct {
	Field         string
	Query         string
	MaxExpansions int
}

func (q MatchPhrasePrefixQuery) Source() map[string]any {
	body := map[string]any{"query": q.Query}
	if q.MaxExpansions > 0 {
		body["max_expansions"] = q.MaxExpansions
	}
	return map[string]any{"match_phrase_prefix": map[string]any{q.Field: body}}
}

// MatchAllQuery matches every document.
type MatchAllQuery struct{}

func (MatchAllQuery) Source() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// RangeQuery constrains a field to the closed interval [GTE, LTE].
// A nil bound leaves that side open.
type RangeQuery struct {
	Field string
	GTE   any
	LTE   any
}

func (q RangeQuery) Source() map[string]any {
	bounds := map[string]any{}
	if q.GTE != nil {
		bounds["gte"] = q.GTE
	}
	if q.LTE != nil {
		bounds["lte"] = q.LTE
	}
	return map[string]any{"range": map[string]any{q.Field: bounds}}
}

// BoolQuery composes sub-queries with boolean semantics. Filter clauses
// constrain matches without contributing to the score.
type BoolQuery struct {
	Must               []Query
	Should             []Query
	Filter             []Query
	MustNot            []Query
	MinimumShouldMatch int
}

func (q BoolQuery) Source() map[string]any {
	body := map[string]any{}
	if len(q.Must) > 0 {
		body["must"] = sources(q.Must)
	}
	if len(q.Should) > 0 {
		body["should"] = sources(q.Should)
	}
	if len(q.Filter) > 0 {
		body["filter"] = sources(q.Filter)
	}
	if len(q.MustNot) > 0 {
		body["must_not"] = sources(q.MustNot)
	}
	if q.MinimumShouldMatch > 0 {
		body["minimum_should_match"] = q.MinimumShouldMatch
	}
	return map[string]any{"bool": body}
}

// KNNQuery ranks documents by vector similarity to the query vector,
// returning the K nearest. An optional filter scopes the candidate set.
type KNNQuery struct {
	Field  string
	Vector []float32
	K      int
	Filter Query
}

func (q KNNQuery) Source() map[string]any {
	body := map[string]any{
		"vector": q.Vector,
		"k":      q.K,
	}
	if q.Filter != nil {
		body["filter"] = q.Filter.Source()
	}
	return map[string]any{"knn": map[string]any{q.Field: body}}
}

func sources(qs []Query) []map[string]any {
	out := make([]map[string]any, len(qs))
	for i, q := range qs {
		out[i] = q.Source()
	}
	return out
}

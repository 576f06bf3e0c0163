package backend

import "context"

// Searcher executes one structured query description per call against the
// search backend. Implementations must be safe for concurrent use.
type Searcher interface {
	// Search executes the request and returns scored hits plus any requested
	// aggregations. Transport failures and timeouts wrap ErrUnavailable;
	// backend-reported query errors wrap ErrQueryRejected. A request that
	// matches nothing returns an empty Response, not an error.
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Sort orders hits by a field instead of relevance.
type Sort struct {
	Field string

	// Desc orders descending when true.
	Desc bool

	// UnmappedType lets the backend sort even where the field is unmapped.
	UnmappedType string
}

// Request describes one backend search call.
type Request struct {
	// Query is the structured query description. Nil means match-all.
	Query Query

	// Size bounds the number of hits returned. It is sent as-is, so
	// aggregation-only requests set it to zero.
	Size int

	// From is the pagination offset.
	From int

	// Sort overrides relevance ordering when non-empty.
	Sort []Sort

	// Aggs maps aggregation names to their descriptions.
	Aggs map[string]Agg
}

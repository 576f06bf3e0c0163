package backend

import (
	"encoding/json"

	"github.com/poiesic/relevit/core"
)

// Hit is one matching document with its relevance score and raw source.
type Hit struct {
	ID     string
	Score  float64
	Source json.RawMessage
}

// Event decodes the hit's source document.
func (h Hit) Event() (*core.Event, error) {
	return core.DecodeEvent(h.Source)
}

// Stats holds the result of a stats aggregation over a numeric field.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
	Sum   float64
}

// Response is the backend's answer to a search request. Buckets and Stats
// are keyed by the aggregation names given in the request.
type Response struct {
	Total   int
	Hits    []Hit
	Buckets map[string][]core.Bucket
	Stats   map[string]Stats
}

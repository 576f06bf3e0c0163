package core

import (
	"encoding/json"
	"time"
)

// MatchTier identifies which cascade strategy produced a resolution.
type MatchTier string

const (
	// TierExact requires field-value equality with the query.
	TierExact MatchTier = "exact"
	// TierPrefix requires the candidate value to start with the query.
	TierPrefix MatchTier = "prefix"
	// TierFuzzy is any backend-ranked approximate match.
	TierFuzzy MatchTier = "fuzzy"
)

// Confidence is a coarse trust label derived from tier and result-set size.
// It is never supplied by callers.
type Confidence string

const (
	ConfidenceVeryHigh Confidence = "very_high"
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
)

// IdentifierField names one of the two identifier fields on event records.
type IdentifierField string

const (
	// FieldRID is the primary identifier field.
	FieldRID IdentifierField = "rid"
	// FieldDocID is the secondary identifier field.
	FieldDocID IdentifierField = "docid"
)

// CrossField returns the other identifier field. Resolutions aggregate
// counts over the cross field so callers can see how matches spread across
// the paired identifier.
func (f IdentifierField) CrossField() IdentifierField {
	if f == FieldRID {
		return FieldDocID
	}
	return FieldRID
}

// Event is one record in the events index.
type Event struct {
	RID        string `json:"rid"`
	DocID      string `json:"docid"`
	Title      string `json:"event_title"`
	Theme      string `json:"event_theme"`
	Summary    string `json:"event_summary"`
	Highlight  string `json:"event_highlight"`
	Object     string `json:"event_object"`
	Country    string `json:"country"`
	Year       int    `json:"year"`
	Attendance int    `json:"event_count"`
}

// Identifier returns the event's value for the given identifier field.
func (e *Event) Identifier(field IdentifierField) string {
	if field == FieldDocID {
		return e.DocID
	}
	return e.RID
}

// DecodeEvent unmarshals a backend hit payload into an Event.
func DecodeEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Match pairs an event with its relevance score.
type Match struct {
	Score float64 `json:"score"`
	Event *Event  `json:"data"`
}

// Bucket is one value/count pair from a terms aggregation.
// Metrics holds numeric sub-aggregation values keyed by name, when requested.
type Bucket struct {
	Value   string             `json:"value"`
	Count   int                `json:"count"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// Resolution is the outcome of a cascading identifier lookup.
//
// TotalCount counts hits accepted by the threshold policy for the returned
// tier, never raw backend hits. TopMatches holds up to three accepted hits
// in descending score order and is always a prefix of the accepted set.
// CrossField carries counts over the paired identifier field, computed from
// the same backend call that produced the returned tier.
type Resolution struct {
	Query      string
	Field      IdentifierField
	Tier       MatchTier
	Confidence Confidence
	TotalCount int
	TopMatches []Match
	CrossField []Bucket
}

// Found reports whether the resolution matched anything.
func (r *Resolution) Found() bool {
	return r.TotalCount > 0
}

// HybridQuery describes one fused search request.
// SemanticBoost weights the vector leg: 0 is pure lexical, 1 pure vector.
type HybridQuery struct {
	Text          string
	SemanticBoost float64
	PageSize      int
}

// Filters scope a search to matching events. Zero values mean unset.
type Filters struct {
	Country       string
	Year          int
	YearFrom      int
	YearTo        int
	MinAttendance int
	MaxAttendance int
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// ScoredCandidate carries one fused document with its score breakdown.
// TextScore and VectorScore are leg-normalized into [0,1]; FusedScore is
// the boost-weighted blend of the two.
type ScoredCandidate struct {
	ID             string
	Event          *Event
	RawTextScore   float64
	RawVectorScore float64
	TextScore      float64
	VectorScore    float64
	FusedScore     float64
}

// FusedResult is the outcome of a hybrid search.
type FusedResult struct {
	Query           string
	Filters         Filters
	Candidates      []ScoredCandidate
	TotalCandidates int // union of both legs before truncation
	TextLegCount    int
	VectorLegCount  int
	SemanticUsed    bool
	Duration        time.Duration
	Aggregations    map[string][]Bucket
}

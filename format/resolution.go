package format

import "github.com/poiesic/relevit/core"

const noMatchesMessage = "No matches found"

// ResolvedMatch is one scored record in a resolution payload.
type ResolvedMatch struct {
	Score float64     `json:"score"`
	Data  *core.Event `json:"data"`
}

// ResolutionPayload is the caller-facing shape of an identifier resolution.
// Empty resolutions carry Message instead of MatchType and Confidence.
type ResolutionPayload struct {
	Query                 string          `json:"query"`
	Field                 string          `json:"field"`
	MatchType             string          `json:"match_type,omitempty"`
	Confidence            string          `json:"confidence,omitempty"`
	TotalCount            int             `json:"total_count"`
	CrossFieldAggregation []core.Bucket   `json:"cross_field_aggregation"`
	TopMatches            []ResolvedMatch `json:"top_3_matches"`
	Message               string          `json:"message,omitempty"`
}

// Resolution shapes a resolver outcome for callers.
func Resolution(r *core.Resolution) *ResolutionPayload {
	payload := &ResolutionPayload{
		Query:                 r.Query,
		Field:                 string(r.Field),
		TotalCount:            r.TotalCount,
		CrossFieldAggregation: r.CrossField,
		TopMatches:            make([]ResolvedMatch, 0, len(r.TopMatches)),
	}
	if payload.CrossFieldAggregation == nil {
		payload.CrossFieldAggregation = []core.Bucket{}
	}

	for _, match := range r.TopMatches {
		payload.TopMatches = append(payload.TopMatches, ResolvedMatch{
			Score: core.RoundScore(match.Score),
			Data:  match.Event,
		})
	}

	if r.Found() {
		payload.MatchType = string(r.Tier)
		payload.Confidence = string(r.Confidence)
	} else {
		payload.Message = noMatchesMessage
	}
	return payload
}

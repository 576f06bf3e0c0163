package format

import "github.com/poiesic/relevit/core"

// SearchMatch is one fused candidate with its score breakdown. The text and
// vector scores are the leg-normalized values the fused score was blended
// from.
type SearchMatch struct {
	TextScore   float64     `json:"text_score"`
	VectorScore float64     `json:"vector_score"`
	FusedScore  float64     `json:"fused_score"`
	Data        *core.Event `json:"data"`
}

// SearchPayload is the caller-facing shape of a hybrid search.
type SearchPayload struct {
	Query              string                   `json:"query"`
	TotalCount         int                      `json:"total_count"`
	SemanticSearchUsed bool                     `json:"semantic_search_used"`
	FiltersApplied     map[string]any           `json:"filters_applied"`
	TookMs             int64                    `json:"took_ms"`
	TextLegCount       int                      `json:"text_leg_count"`
	VectorLegCount     int                      `json:"vector_leg_count"`
	Aggregations       map[string][]core.Bucket `json:"aggregations,omitempty"`
	TopMatches         []SearchMatch            `json:"top_matches"`
}

// Search shapes a fused search result for callers.
func Search(r *core.FusedResult) *SearchPayload {
	payload := &SearchPayload{
		Query:              r.Query,
		TotalCount:         r.TotalCandidates,
		SemanticSearchUsed: r.SemanticUsed,
		FiltersApplied:     filtersApplied(r.Filters),
		TookMs:             r.Duration.Milliseconds(),
		TextLegCount:       r.TextLegCount,
		VectorLegCount:     r.VectorLegCount,
		Aggregations:       r.Aggregations,
		TopMatches:         make([]SearchMatch, 0, len(r.Candidates)),
	}

	for _, candidate := range r.Candidates {
		payload.TopMatches = append(payload.TopMatches, SearchMatch{
			TextScore:   core.RoundScore(candidate.TextScore),
			VectorScore: core.RoundScore(candidate.VectorScore),
			FusedScore:  core.RoundScore(candidate.FusedScore),
			Data:        candidate.Event,
		})
	}
	return payload
}

// filtersApplied reports the filters that were actually set.
func filtersApplied(f core.Filters) map[string]any {
	applied := map[string]any{}
	if f.Country != "" {
		applied["country"] = f.Country
	}
	if f.Year != 0 {
		applied["year"] = f.Year
	}
	if f.YearFrom != 0 {
		applied["year_from"] = f.YearFrom
	}
	if f.YearTo != 0 {
		applied["year_to"] = f.YearTo
	}
	if f.MinAttendance != 0 {
		applied["min_attendance"] = f.MinAttendance
	}
	if f.MaxAttendance != 0 {
		applied["max_attendance"] = f.MaxAttendance
	}
	return applied
}

package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	t.Run("shapes fused result", func(t *testing.T) {
		payload := Search(&core.FusedResult{
			Query: "tech",
			Candidates: []core.ScoredCandidate{
				{
					ID:          "1",
					Event:       &core.Event{RID: "REC-1", Title: "Tech Summit"},
					TextScore:   1.0,
					VectorScore: 0.8,
					FusedScore:  0.94,
				},
				{
					ID:         "2",
					Event:      &core.Event{RID: "REC-2", Title: "Tech Expo"},
					TextScore:  0.5,
					FusedScore: 0.35,
				},
			},
			TotalCandidates: 7,
			TextLegCount:    5,
			VectorLegCount:  4,
			SemanticUsed:    true,
			Duration:        42 * time.Millisecond,
		})

		assert.Equal(t, "tech", payload.Query)
		assert.Equal(t, 7, payload.TotalCount)
		assert.True(t, payload.SemanticSearchUsed)
		assert.Equal(t, int64(42), payload.TookMs)
		assert.Equal(t, 5, payload.TextLegCount)
		assert.Equal(t, 4, payload.VectorLegCount)
		require.Len(t, payload.TopMatches, 2)
		assert.Equal(t, 0.94, payload.TopMatches[0].FusedScore)
		assert.Equal(t, "REC-1", payload.TopMatches[0].Data.RID)
		assert.Equal(t, 0.0, payload.TopMatches[1].VectorScore)
	})

	t.Run("scores rounded to six decimals", func(t *testing.T) {
		payload := Search(&core.FusedResult{
			Query: "tech",
			Candidates: []core.ScoredCandidate{
				{
					Event:       &core.Event{RID: "REC-1"},
					TextScore:   0.3333333333,
					VectorScore: 0.6666666666,
					FusedScore:  0.4333333289,
				},
			},
			TotalCandidates: 1,
		})

		assert.Equal(t, 0.333333, payload.TopMatches[0].TextScore)
		assert.Equal(t, 0.666667, payload.TopMatches[0].VectorScore)
		assert.Equal(t, 0.433333, payload.TopMatches[0].FusedScore)
	})

	t.Run("filters applied reports only set filters", func(t *testing.T) {
		payload := Search(&core.FusedResult{
			Query: "expo",
			Filters: core.Filters{
				Country:  "Japan",
				YearFrom: 2020,
				YearTo:   2024,
			},
		})

		assert.Equal(t, map[string]any{
			"country":   "Japan",
			"year_from": 2020,
			"year_to":   2024,
		}, payload.FiltersApplied)
	})

	t.Run("no filters yields empty map", func(t *testing.T) {
		payload := Search(&core.FusedResult{Query: "expo"})

		assert.NotNil(t, payload.FiltersApplied)
		assert.Empty(t, payload.FiltersApplied)
	})

	t.Run("aggregations pass through", func(t *testing.T) {
		payload := Search(&core.FusedResult{
			Query: "expo",
			Aggregations: map[string][]core.Bucket{
				"count_by_year": {{Value: "2024", Count: 12}},
			},
		})

		require.Contains(t, payload.Aggregations, "count_by_year")
		assert.Equal(t, 12, payload.Aggregations["count_by_year"][0].Count)
	})

	t.Run("json shape", func(t *testing.T) {
		payload := Search(&core.FusedResult{
			Query:           "tech",
			Candidates:      []core.ScoredCandidate{{Event: &core.Event{RID: "REC-1"}, FusedScore: 1}},
			TotalCandidates: 1,
			SemanticUsed:    false,
		})

		out, err := json.Marshal(payload)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out, &decoded))

		assert.Contains(t, decoded, "semantic_search_used")
		assert.Contains(t, decoded, "filters_applied")
		assert.Contains(t, decoded, "took_ms")
		assert.Contains(t, decoded, "top_matches")
		assert.NotContains(t, decoded, "aggregations")

		matches := decoded["top_matches"].([]any)
		first := matches[0].(map[string]any)
		assert.Contains(t, first, "text_score")
		assert.Contains(t, first, "vector_score")
		assert.Contains(t, first, "fused_score")
		assert.Contains(t, first, "data")
	})
}

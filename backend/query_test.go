package backend

import (
	"testing"

	"github.com/poiesic/relevit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermQuerySource(t *testing.T) {
	q := TermQuery{Field: "rid.keyword", Value: "65478902"}

	assert.Equal(t, map[string]any{
		"term": map[string]any{"rid.keyword": "65478902"},
	}, q.Source())
}

func TestMatchQuerySource(t *testing.T) {
	t.Run("plain match omits fuzzy options", func(t *testing.T) {
		q := MatchQuery{Field: "rid.prefix", Query: "654"}

		assert.Equal(t, map[string]any{
			"match": map[string]any{
				"rid.prefix": map[string]any{"query": "654"},
			},
		}, q.Source())
	})

	t.Run("fuzziness enables anchor and expansion limits", func(t *testing.T) {
		q := MatchQuery{
			Field:         "docid",
			Query:         "IN-2024-TECH",
			Fuzziness:     "AUTO",
			PrefixLength:  1,
			MaxExpansions: 50,
		}

		assert.Equal(t, map[string]any{
			"match": map[string]any{
				"docid": map[string]any{
					"query":          "IN-2024-TECH",
					"fuzziness":      "AUTO",
					"prefix_length":  1,
					"max_expansions": 50,
				},
			},
		}, q.Source())
	})
}

func TestMultiMatchQuerySource(t *testing.T) {
	q := MultiMatchQuery{
		Query:         "tech summit",
		Fields:        []string{"event_title^3", "event_theme^2"},
		Type:          "best_fields",
		Operator:      "or",
		Fuzziness:     "AUTO",
		PrefixLength:  1,
		MaxExpansions: 50,
	}

	assert.Equal(t, map[string]any{
		"multi_match": map[string]any{
			"query":          "tech summit",
			"fields":         []string{"event_title^3", "event_theme^2"},
			"type":           "best_fields",
			"operator":       "or",
			"fuzziness":      "AUTO",
			"prefix_length":  1,
			"max_expansions": 50,
		},
	}, q.Source())
}

func TestBoolQuerySource(t *testing.T) {
	q := BoolQuery{
		Must:   []Query{MatchAllQuery{}},
		Filter: []Query{TermQuery{Field: "year", Value: 2024}},
	}

	assert.Equal(t, map[string]any{
		"bool": map[string]any{
			"must":   []map[string]any{{"match_all": map[string]any{}}},
			"filter": []map[string]any{{"term": map[string]any{"year": 2024}}},
		},
	}, q.Source())
}

func TestBoolQueryShouldWithMinimum(t *testing.T) {
	q := BoolQuery{
		Should: []Query{
			MatchPhrasePrefixQuery{Field: "event_title", Query: "tech", MaxExpansions: 5},
			MatchPhrasePrefixQuery{Field: "event_theme", Query: "tech", MaxExpansions: 5},
		},
		MinimumShouldMatch: 1,
	}

	src := q.Source()
	boolBody, ok := src["bool"].(map[string]any)
	assert.True(t, ok)
	assert.Len(t, boolBody["should"], 2)
	assert.Equal(t, 1, boolBody["minimum_should_match"])
	assert.NotContains(t, boolBody, "must")
}

func TestRangeQuerySource(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		q := RangeQuery{Field: "year", GTE: 2020, LTE: 2024}

		assert.Equal(t, map[string]any{
			"range": map[string]any{
				"year": map[string]any{"gte": 2020, "lte": 2024},
			},
		}, q.Source())
	})

	t.Run("open lower bound", func(t *testing.T) {
		q := RangeQuery{Field: "event_count", LTE: 5000}

		assert.Equal(t, map[string]any{
			"range": map[string]any{
				"event_count": map[string]any{"lte": 5000},
			},
		}, q.Source())
	})
}

func TestKNNQuerySource(t *testing.T) {
	q := KNNQuery{
		Field:  "embedding",
		Vector: []float32{0.1, 0.2},
		K:      20,
		Filter: TermQuery{Field: "country", Value: "India"},
	}

	assert.Equal(t, map[string]any{
		"knn": map[string]any{
			"embedding": map[string]any{
				"vector": []float32{0.1, 0.2},
				"k":      20,
				"filter": map[string]any{
					"term": map[string]any{"country": "India"},
				},
			},
		},
	}, q.Source())
}

func TestTermsAggSource(t *testing.T) {
	t.Run("plain terms", func(t *testing.T) {
		a := TermsAgg{Field: "country.keyword", Size: 100}

		assert.Equal(t, map[string]any{
			"terms": map[string]any{"field": "country.keyword", "size": 100},
		}, a.Source())
	})

	t.Run("key order and sub aggregations", func(t *testing.T) {
		a := TermsAgg{
			Field:      "year",
			Size:       10,
			OrderByKey: true,
			SubAggs: map[string]Agg{
				"avg_attendance": AvgAgg{Field: "event_count"},
			},
		}

		assert.Equal(t, map[string]any{
			"terms": map[string]any{
				"field": "year",
				"size":  10,
				"order": map[string]any{"_key": "asc"},
			},
			"aggs": map[string]any{
				"avg_attendance": map[string]any{
					"avg": map[string]any{"field": "event_count"},
				},
			},
		}, a.Source())
	})
}

func TestMetricAggSources(t *testing.T) {
	assert.Equal(t, map[string]any{"stats": map[string]any{"field": "event_count"}}, StatsAgg{Field: "event_count"}.Source())
	assert.Equal(t, map[string]any{"sum": map[string]any{"field": "event_count"}}, SumAgg{Field: "event_count"}.Source())
	assert.Equal(t, map[string]any{"min": map[string]any{"field": "event_count"}}, MinAgg{Field: "event_count"}.Source())
	assert.Equal(t, map[string]any{"max": map[string]any{"field": "event_count"}}, MaxAgg{Field: "event_count"}.Source())
}

func TestFilterClauses(t *testing.T) {
	t.Run("empty filters produce no clauses", func(t *testing.T) {
		assert.Empty(t, FilterClauses(core.Filters{}))
	})

	t.Run("country and exact year become terms", func(t *testing.T) {
		clauses := FilterClauses(core.Filters{Country: "India", Year: 2024})

		require.Len(t, clauses, 2)
		assert.Equal(t, map[string]any{
			"term": map[string]any{"country": "India"},
		}, clauses[0].Source())
		assert.Equal(t, map[string]any{
			"term": map[string]any{"year": 2024},
		}, clauses[1].Source())
	})

	t.Run("year range becomes a range clause", func(t *testing.T) {
		clauses := FilterClauses(core.Filters{YearFrom: 2020, YearTo: 2023})

		require.Len(t, clauses, 1)
		assert.Equal(t, map[string]any{
			"range": map[string]any{
				"year": map[string]any{"gte": 2020, "lte": 2023},
			},
		}, clauses[0].Source())
	})

	t.Run("attendance bounds apply to event_count", func(t *testing.T) {
		clauses := FilterClauses(core.Filters{MinAttendance: 500})

		require.Len(t, clauses, 1)
		assert.Equal(t, map[string]any{
			"range": map[string]any{
				"event_count": map[string]any{"gte": 500},
			},
		}, clauses[0].Source())
	})
}

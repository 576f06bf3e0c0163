package fusion

import (
	"fmt"
	"math"
	"sort"

	"github.com/poiesic/relevit/backend"
	"github.com/poiesic/relevit/core"
)

// normalizeScores divides each hit's score by the leg's maximum, yielding
// values in [0,1]. A leg whose maximum is zero or negative normalizes to
// all zeros.
func normalizeScores(hits []backend.Hit) map[string]float64 {
	normalized := make(map[string]float64, len(hits))
	var max float64
	for _, hit := range hits {
		if hit.Score > max {
			max = hit.Score
		}
	}
	for _, hit := range hits {
		if max <= 0 {
			normalized[hit.ID] = 0
		} else {
			normalized[hit.ID] = hit.Score / max
		}
	}
	return normalized
}

// fuseCandidates merges the two legs by document id and computes the
// blended score for every candidate in the union. A document absent from
// one leg contributes zero for that leg.
func fuseCandidates(textHits, vectorHits []backend.Hit, boost float64) ([]core.ScoredCandidate, error) {
	normText := normalizeScores(textHits)
	normVector := normalizeScores(vectorHits)

	candidates := make([]core.ScoredCandidate, 0, len(textHits)+len(vectorHits))
	position := make(map[string]int, len(textHits)+len(vectorHits))

	add := func(hit backend.Hit, text bool) error {
		i, seen := position[hit.ID]
		if !seen {
			event, err := hit.Event()
			if err != nil {
				return fmt.Errorf("decoding hit %s: %w", hit.ID, err)
			}
			candidates = append(candidates, core.ScoredCandidate{ID: hit.ID, Event: event})
			i = len(candidates) - 1
			position[hit.ID] = i
		}
		if text {
			candidates[i].RawTextScore = hit.Score
			candidates[i].TextScore = normText[hit.ID]
		} else {
			candidates[i].RawVectorScore = hit.Score
			candidates[i].VectorScore = normVector[hit.ID]
		}
		return nil
	}

	for _, hit := range textHits {
		if err := add(hit, true); err != nil {
			return nil, err
		}
	}
	for _, hit := range vectorHits {
		if err := add(hit, false); err != nil {
			return nil, err
		}
	}

	for i := range candidates {
		candidates[i].FusedScore = (1-boost)*candidates[i].TextScore + boost*candidates[i].VectorScore
	}
	return candidates, nil
}

// sortCandidates orders by fused score descending. Ties break by the text
// leg's original rank, with documents the text leg never saw sorting last,
// then by document id so the ordering never depends on leg completion order.
func sortCandidates(candidates []core.ScoredCandidate, textHits []backend.Hit) {
	rank := make(map[string]int, len(textHits))
	for i, hit := range textHits {
		if _, ok := rank[hit.ID]; !ok {
			rank[hit.ID] = i
		}
	}
	rankOf := func(id string) int {
		if r, ok := rank[id]; ok {
			return r
		}
		return math.MaxInt
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].FusedScore != candidates[j].FusedScore {
			return candidates[i].FusedScore > candidates[j].FusedScore
		}
		ri, rj := rankOf(candidates[i].ID), rankOf(candidates[j].ID)
		if ri != rj {
			return ri < rj
		}
		return candidates[i].ID < candidates[j].ID
	})
}

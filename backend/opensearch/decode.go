package opensearch

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/relevit/backend"
	"github.com/poiesic/relevit/core"
)

// searchResponse is the subset of the engine's _search reply we consume.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// aggResult is the union of terms and stats aggregation payloads. Count
// distinguishes a stats result from a bucketed one.
type aggResult struct {
	Buckets []json.RawMessage `json:"buckets"`
	Count   *int              `json:"count"`
	Min     *float64          `json:"min"`
	Max     *float64          `json:"max"`
	Avg     *float64          `json:"avg"`
	Sum     *float64          `json:"sum"`
}

func decodeSearchResponse(raw []byte) (*backend.Response, error) {
	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", backend.ErrUnavailable, err)
	}

	resp := &backend.Response{
		Total: parsed.Hits.Total.Value,
		Hits:  make([]backend.Hit, 0, len(parsed.Hits.Hits)),
	}
	for _, h := range parsed.Hits.Hits {
		hit := backend.Hit{ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		resp.Hits = append(resp.Hits, hit)
	}

	for name, payload := range parsed.Aggregations {
		var agg aggResult
		if err := json.Unmarshal(payload, &agg); err != nil {
			return nil, fmt.Errorf("%w: decoding aggregation %q: %v", backend.ErrUnavailable, name, err)
		}

		switch {
		case agg.Count != nil:
			if resp.Stats == nil {
				resp.Stats = make(map[string]backend.Stats)
			}
			resp.Stats[name] = backend.Stats{
				Count: *agg.Count,
				Min:   floatValue(agg.Min),
				Max:   floatValue(agg.Max),
				Avg:   floatValue(agg.Avg),
				Sum:   floatValue(agg.Sum),
			}
		case agg.Buckets != nil:
			buckets := make([]core.Bucket, 0, len(agg.Buckets))
			for _, rawBucket := range agg.Buckets {
				bucket, err := decodeBucket(rawBucket)
				if err != nil {
					return nil, fmt.Errorf("%w: decoding aggregation %q: %v", backend.ErrUnavailable, name, err)
				}
				buckets = append(buckets, bucket)
			}
			if resp.Buckets == nil {
				resp.Buckets = make(map[string][]core.Bucket)
			}
			resp.Buckets[name] = buckets
		}
	}

	return resp, nil
}

// decodeBucket reads one terms bucket. Fields beyond key and doc_count that
// carry a single numeric value are metric sub-aggregations.
func decodeBucket(raw json.RawMessage) (core.Bucket, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return core.Bucket{}, err
	}

	var bucket core.Bucket
	if key, ok := fields["key_as_string"]; ok {
		if err := json.Unmarshal(key, &bucket.Value); err != nil {
			return core.Bucket{}, fmt.Errorf("bucket key: %w", err)
		}
	} else if key, ok := fields["key"]; ok {
		bucket.Value = keyString(key)
	}
	if count, ok := fields["doc_count"]; ok {
		if err := json.Unmarshal(count, &bucket.Count); err != nil {
			return core.Bucket{}, fmt.Errorf("bucket doc_count: %w", err)
		}
	}

	for name, payload := range fields {
		if name == "key" || name == "key_as_string" || name == "doc_count" {
			continue
		}
		var metric struct {
			Value *float64 `json:"value"`
		}
		if err := json.Unmarshal(payload, &metric); err != nil || metric.Value == nil {
			continue
		}
		if bucket.Metrics == nil {
			bucket.Metrics = make(map[string]float64)
		}
		bucket.Metrics[name] = *metric.Value
	}

	return bucket, nil
}

// keyString renders a bucket key as a string. Numeric keys (year buckets)
// keep their literal form.
func keyString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package policy holds the score thresholds and confidence rules applied to
// backend hits during identifier resolution. Everything here is pure and
// stateless: thresholds are plain values, acceptance checks are comparisons,
// and confidence is a deterministic function of tier and accepted hit count.
package policy

import (
	"errors"
	"fmt"

	"github.com/poiesic/relevit/core"
)

// fuzzyBroadMatchLimit is the accepted-hit count above which a fuzzy result
// set is considered too broad to trust beyond low confidence.
const fuzzyBroadMatchLimit = 5

// ErrInvalidThresholds indicates thresholds that cannot govern a cascade.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds carries the per-field floors and limits for one identifier
// field. The defaults were tuned empirically against the events corpus;
// deployments override them through configuration.
type Thresholds struct {
	// MinQueryLength is the shortest query accepted for the field.
	MinQueryLength int

	// ExactFloor is the minimum score accepted from the exact tier.
	ExactFloor float64

	// PrefixFloor is the minimum score accepted from the prefix tier.
	PrefixFloor float64

	// FuzzyFloor is the minimum score accepted from the fuzzy tier.
	FuzzyFloor float64

	// MaxPrefixResults caps how many accepted prefix hits are still precise
	// enough to return; larger accepted sets fall through to the fuzzy tier.
	MaxPrefixResults int
}

// RIDThresholds returns the default thresholds for the primary identifier.
func RIDThresholds() Thresholds {
	return Thresholds{
		MinQueryLength:   3,
		ExactFloor:       1.0,
		PrefixFloor:      1.0,
		FuzzyFloor:       2.5,
		MaxPrefixResults: 8,
	}
}

// DocIDThresholds returns the default thresholds for the secondary
// identifier. The fuzzy floor is higher than the primary field's because
// docid values are longer and fuzzy matches on them score higher.
func DocIDThresholds() Thresholds {
	return Thresholds{
		MinQueryLength:   4,
		ExactFloor:       1.0,
		PrefixFloor:      1.0,
		FuzzyFloor:       3.5,
		MaxPrefixResults: 8,
	}
}

// Defaults returns the default thresholds for both identifier fields.
func Defaults() map[core.IdentifierField]Thresholds {
	return map[core.IdentifierField]Thresholds{
		core.FieldRID:   RIDThresholds(),
		core.FieldDocID: DocIDThresholds(),
	}
}

// Validate checks that the thresholds can govern a cascade.
func (t Thresholds) Validate() error {
	if t.MinQueryLength < 1 {
		return fmt.Errorf("%w: min query length %d", ErrInvalidThresholds, t.MinQueryLength)
	}
	if t.MaxPrefixResults < 1 {
		return fmt.Errorf("%w: max prefix results %d", ErrInvalidThresholds, t.MaxPrefixResults)
	}
	if t.ExactFloor < 0 || t.PrefixFloor < 0 || t.FuzzyFloor < 0 {
		return fmt.Errorf("%w: negative score floor", ErrInvalidThresholds)
	}
	return nil
}

// AcceptExact reports whether an exact-tier hit score passes the floor.
func (t Thresholds) AcceptExact(score float64) bool {
	return score >= t.ExactFloor
}

// AcceptPrefix reports whether a prefix-tier hit score passes the floor.
func (t Thresholds) AcceptPrefix(score float64) bool {
	return score >= t.PrefixFloor
}

// AcceptFuzzy reports whether a fuzzy-tier hit score passes the floor.
func (t Thresholds) AcceptFuzzy(score float64) bool {
	return score >= t.FuzzyFloor
}

// ConfidenceFor maps a tier and its accepted hit count to a confidence label.
//
// Exact matches are always very high confidence since the tier guarantees
// field equality. Prefix matches are high confidence while the accepted set
// stays within maxPrefixResults. Fuzzy matches never rise above medium and
// drop to low when the accepted set is broad.
func ConfidenceFor(tier core.MatchTier, acceptedCount, maxPrefixResults int) core.Confidence {
	switch tier {
	case core.TierExact:
		return core.ConfidenceVeryHigh
	case core.TierPrefix:
		if acceptedCount <= maxPrefixResults {
			return core.ConfidenceHigh
		}
		return core.ConfidenceMedium
	default:
		if acceptedCount > fuzzyBroadMatchLimit {
			return core.ConfidenceLow
		}
		return core.ConfidenceMedium
	}
}

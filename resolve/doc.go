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


// Package resolve finds events by identifier using a cascading lookup.
//
// The Resolver tries three strategies in order, stopping at the first one
// that produces trustworthy matches:
//   - Exact equality on the identifier's keyword sub-field
//   - Prefix match on the identifier's edge-ngram sub-field
//   - Fuzzy match on the ngram-analyzed base field
//
// Each tier's hits are filtered by the score thresholds in the policy
// package. A prefix match that accepts more records than the configured
// maximum is treated as too broad and falls through to fuzzy. A backend
// error at any tier aborts the cascade, so an outage never reads as a miss.
package resolve

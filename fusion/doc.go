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


// Package fusion ranks events by blending lexical and semantic relevance.
//
// The Engine dispatches a boosted multi-field text query and a k-nearest
// vector query concurrently against the same corpus, normalizes each leg's
// scores by that leg's maximum, and merges the two candidate sets with
//
//	fused = (1-boost)*text + boost*vector
//
// A semantic boost of 0, a missing embedder, blank query text, or an
// embedding failure all degrade to the identical text-only search. A single
// failed leg degrades to the surviving leg's results; only the failure of
// both legs surfaces an error. The fused ordering is deterministic: ties
// break by the text leg's rank, then by document id.
package fusion

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


// Package backend defines the search backend abstraction consumed by the
// resolver, fusion engine, and analytics layers.
//
// The package decouples query construction from transport: callers describe
// what they want with structured query and aggregation values (TermQuery,
// MultiMatchQuery, KNNQuery, TermsAgg, ...), each of which renders itself
// into the backend's JSON query DSL via Source(). The Searcher interface
// executes one description per call and returns a typed Response.
//
// # Constructor Return Type Pattern
//
// Concrete clients (see backend/opensearch) return their own types; consumers
// should depend on the Searcher interface so tests can substitute fakes and
// alternative engines can be wired without touching callers.
//
// # Error Taxonomy
//
// Implementations map transport failures and timeouts to ErrUnavailable and
// backend-reported query errors to ErrQueryRejected. Retries are the
// caller's decision; implementations must not retry.
//
// # Thread Safety
//
// Searcher implementations must be safe for concurrent use; the fusion
// engine issues its two legs against one Searcher at the same time.
package backend

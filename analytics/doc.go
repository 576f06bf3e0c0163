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


// Package analytics computes corpus-level breakdowns over the events index.
//
// All operations are aggregation-only searches: attendance statistics,
// per-year and per-country distributions, top themes, and a paginated
// listing for browsing. Overview fans the three breakdowns out on a worker
// pool and joins them into one snapshot.
//
// The package holds no state beyond the backend handle and the pool;
// every number it reports comes from a single backend round trip per
// operation.
package analytics

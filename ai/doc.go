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


// Package ai provides the embedding abstraction used by semantic search.
//
// The Embedder interface turns text into fixed-dimension vectors. The core
// search logic depends only on this abstraction, never on a concrete
// provider.
//
// # Implementation Packages
//
//   - ai/openai: production implementation against OpenAI-compatible APIs
//   - ai/mock: deterministic test double, no external dependencies
//
// # Constructor Return Type Pattern
//
// The public constructor (openai.NewEmbedder) returns the ai.Embedder
// INTERFACE to enforce abstraction and prevent coupling to the concrete
// implementation.
//
//	embedder, err := openai.NewEmbedder(config)  // returns ai.Embedder
//
// The test utility constructor (mock.NewMockEmbedder) returns the CONCRETE
// type to enable behavior injection and call-count assertions.
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...        // needs concrete type
//	count := mockEmbed.CallCount()       // test assertion
//
// # Error Semantics
//
// Provider failures wrap ErrEmbeddingUnavailable. Callers that can degrade
// to lexical-only behavior test for it with errors.Is and continue without
// a vector.
package ai

// Package mock provides a test double implementation of ai.Embedder.
//
// The mock allows tests to run without an external embedding service and
// enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockEmbedder := mock.NewMockEmbedder()
//	vector, err := mockEmbedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
// Without injected functions, MockEmbedder returns deterministic vectors
// derived from a hash of the input text, so the same text always embeds to
// the same vector.
package mock

package fusion

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/relevit/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_ReturnsTitlesInRankOrder(t *testing.T) {
	searcher := &stubSearcher{
		textResp: hitsResponse(
			eventHit(t, "1", 3.0, "Global Tech Summit"),
			eventHit(t, "2", 2.0, "Tech Expo Berlin"),
			eventHit(t, "3", 1.0, "Technology Forum"),
		),
	}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "tech", 3)

	assert.Equal(t, []string{"Global Tech Summit", "Tech Expo Berlin", "Technology Forum"}, suggestions)

	// The lookup is a phrase-prefix should over title and theme, sized to
	// the requested suggestion count.
	req := searcher.textRequest()
	require.NotNil(t, req)
	assert.Equal(t, 3, req.Size)
	boolPart := req.Query.Source()["bool"].(map[string]any)
	should := boolPart["should"].([]map[string]any)
	require.Len(t, should, 2)
	title := should[0]["match_phrase_prefix"].(map[string]any)["event_title"].(map[string]any)
	assert.Equal(t, "tech", title["query"])
	assert.Equal(t, 3, title["max_expansions"])
	theme := should[1]["match_phrase_prefix"].(map[string]any)["event_theme"].(map[string]any)
	assert.Equal(t, "tech", theme["query"])
}

func TestSuggest_DedupesCaseInsensitive(t *testing.T) {
	searcher := &stubSearcher{
		textResp: hitsResponse(
			eventHit(t, "1", 3.0, "Tech Summit"),
			eventHit(t, "2", 2.0, "tech summit"),
			eventHit(t, "3", 1.0, "Tech Expo"),
		),
	}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "tech", 5)

	// First casing wins.
	assert.Equal(t, []string{"Tech Summit", "Tech Expo"}, suggestions)
}

func TestSuggest_TruncatesLongTitles(t *testing.T) {
	long := "International Conference on Renewable Energy and Sustainable Development"
	searcher := &stubSearcher{
		textResp: hitsResponse(eventHit(t, "1", 1.0, long)),
	}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "international", 5)

	require.Len(t, suggestions, 1)
	assert.Equal(t, long[:50]+"...", suggestions[0])
	assert.Len(t, suggestions[0], 53)
}

func TestSuggest_SkipsBlankTitles(t *testing.T) {
	searcher := &stubSearcher{
		textResp: hitsResponse(
			eventHit(t, "1", 2.0, "  "),
			eventHit(t, "2", 1.0, "Trade Expo"),
		),
	}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "trade", 5)

	assert.Equal(t, []string{"Trade Expo"}, suggestions)
}

func TestSuggest_BlankPrefix(t *testing.T) {
	searcher := &stubSearcher{}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "   ", 5)

	assert.Empty(t, suggestions)
	assert.NotNil(t, suggestions)
	assert.Equal(t, 0, searcher.requestCount())
}

func TestSuggest_DefaultSize(t *testing.T) {
	searcher := &stubSearcher{}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	engine.Suggest(context.Background(), "tech", 0)

	assert.Equal(t, 5, searcher.textRequest().Size)
}

func TestSuggest_FallbackOnBackendError(t *testing.T) {
	searcher := &stubSearcher{
		textErr: fmt.Errorf("%w: timeout", backend.ErrUnavailable),
	}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "conference", 5)

	assert.Equal(t, []string{"climate conference", "health conference", "energy conference"}, suggestions)
}

func TestSuggest_FallbackOnNoMatches(t *testing.T) {
	searcher := &stubSearcher{}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "festival", 5)

	assert.Equal(t, []string{"music festival", "film festival", "cultural festival", "food festival"}, suggestions)
}

func TestSuggest_FallbackCapped(t *testing.T) {
	searcher := &stubSearcher{
		textErr: fmt.Errorf("%w: timeout", backend.ErrUnavailable),
	}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	// "f" appears in more than five fallback terms.
	suggestions := engine.Suggest(context.Background(), "f", 10)

	assert.Len(t, suggestions, 5)
}

func TestSuggest_FallbackMatchesNothing(t *testing.T) {
	searcher := &stubSearcher{}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "zzzz", 5)

	assert.Empty(t, suggestions)
}

func TestSuggest_CustomFallbackTerms(t *testing.T) {
	searcher := &stubSearcher{}
	engine, err := NewEngine(searcher, WithFallbackSuggestions([]string{"vintage car expo", "boat show"}))
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "expo", 5)

	assert.Equal(t, []string{"vintage car expo"}, suggestions)
}

func TestSuggest_MixedCasePrefixMatchesFallback(t *testing.T) {
	searcher := &stubSearcher{}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "Conference", 5)

	assert.Contains(t, suggestions, "climate conference")
	assert.True(t, len(suggestions) <= 5)
}

func TestSuggest_TitleAtLimitNotTruncated(t *testing.T) {
	exact := strings.Repeat("a", maxSuggestionLen)
	searcher := &stubSearcher{
		textResp: hitsResponse(eventHit(t, "1", 1.0, exact)),
	}
	engine, err := NewEngine(searcher)
	require.NoError(t, err)

	suggestions := engine.Suggest(context.Background(), "aaa", 5)

	require.Len(t, suggestions, 1)
	assert.Equal(t, exact, suggestions[0])
}

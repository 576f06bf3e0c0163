package fusion

import (
	"context"
	"strings"

	"github.com/poiesic/relevit/backend"
)

const (
	defaultSuggestSize = 5
	maxSuggestionLen   = 50
)

// defaultFallbackTerms seed suggestions when the backend cannot.
var defaultFallbackTerms = []string{
	"technology summit", "climate conference", "trade expo",
	"music festival", "film festival", "sports championship",
	"cultural festival", "business forum", "science fair",
	"art exhibition", "food festival", "startup meetup",
	"health conference", "education summit", "energy conference",
	"innovation forum",
}

// Suggest returns up to size completion suggestions for a partial query,
// drawn from the titles of events whose title or theme continues the
// phrase. It never fails: when the backend call errors or yields nothing,
// the configured fallback terms are filtered against the query instead.
func (e *Engine) Suggest(ctx context.Context, prefix string, size int) []string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}
	}
	if size <= 0 {
		size = defaultSuggestSize
	}

	req := &backend.Request{
		Query: backend.BoolQuery{
			Should: []backend.Query{
				backend.MatchPhrasePrefixQuery{Field: "event_title", Query: prefix, MaxExpansions: size},
				backend.MatchPhrasePrefixQuery{Field: "event_theme", Query: prefix, MaxExpansions: size},
			},
		},
		Size: size,
	}

	resp, err := e.searcher.Search(ctx, req)
	if err != nil {
		e.logger.Warn("suggestion lookup failed, using fallback terms", "query", prefix, "err", err)
		return e.fallbackSuggestions(prefix)
	}

	// Dedupe case-insensitively, preserving rank order.
	suggestions := make([]string, 0, len(resp.Hits))
	seen := make(map[string]bool, len(resp.Hits))
	for _, hit := range resp.Hits {
		event, err := hit.Event()
		if err != nil {
			continue
		}
		title := strings.TrimSpace(event.Title)
		if title == "" {
			continue
		}
		if len(title) > maxSuggestionLen {
			title = title[:maxSuggestionLen] + "..."
		}
		key := strings.ToLower(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		suggestions = append(suggestions, title)
	}

	if len(suggestions) == 0 {
		return e.fallbackSuggestions(prefix)
	}
	return suggestions
}

// fallbackSuggestions filters the static terms by the query text.
func (e *Engine) fallbackSuggestions(prefix string) []string {
	lower := strings.ToLower(prefix)
	matches := make([]string, 0, defaultSuggestSize)
	for _, term := range e.fallbackTerms {
		if strings.Contains(term, lower) {
			matches = append(matches, term)
			if len(matches) == defaultSuggestSize {
				break
			}
		}
	}
	return matches
}

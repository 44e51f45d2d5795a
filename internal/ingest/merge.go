package ingest

import (
	"slices"
	"strings"

	"github.com/jlambert/stancewatch/internal/articles"
)

// Merge combines per-provider article lists into one deduplicated list.
// Providers are visited in the given priority order and the first occurrence
// of a lower-cased URL wins, so a higher-priority provider's copy is kept.
func Merge(byProvider map[string][]articles.Article, order []string) []articles.Article {
	seen := make(map[string]struct{})
	var merged []articles.Article

	appendList := func(list []articles.Article) {
		for _, a := range list {
			key := articles.NormalizeURL(a.URL)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, a)
		}
	}

	for _, provider := range order {
		appendList(byProvider[provider])
	}

	// Providers outside the configured order still contribute, after it.
	for provider, list := range byProvider {
		if !slices.Contains(order, provider) {
			appendList(list)
		}
	}

	return merged
}

// Prefilter keeps articles whose title or snippet contains any of the given
// keywords, case-insensitively. An empty keyword list keeps everything.
func Prefilter(list []articles.Article, keywords []string) []articles.Article {
	if len(keywords) == 0 {
		return list
	}

	var kept []articles.Article
	for _, a := range list {
		haystack := strings.ToLower(a.Title + " " + a.Snippet)
		for _, kw := range keywords {
			if strings.Contains(haystack, strings.ToLower(kw)) {
				kept = append(kept, a)
				break
			}
		}
	}
	return kept
}

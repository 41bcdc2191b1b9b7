// Package classifier suggests free-text tags for ingested deals. The GPT
// tagger is optional; the keyword tagger is the always-available fallback.
package classifier

import (
	"strings"

	"dealshub/backend/internal/config"
)

// Tagger produces up to maxTags lower-cased tags for a deal text.
type Tagger interface {
	SuggestTags(content string) []string
}

// KeywordTagger derives tags from hashtags and the category keyword table.
type KeywordTagger struct {
	maxTags int
}

func NewKeywordTagger(maxTags int) *KeywordTagger {
	return &KeywordTagger{maxTags: maxTags}
}

func (c *KeywordTagger) SuggestTags(content string) []string {
	seen := make(map[string]bool)
	var tags []string
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, word := range strings.Fields(content) {
		if strings.HasPrefix(word, "#") {
			add(strings.TrimPrefix(word, "#"))
		}
	}

	lower := strings.ToLower(content)
	for _, cat := range config.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				add(cat.Label)
				break
			}
		}
	}

	if len(tags) > c.maxTags {
		tags = tags[:c.maxTags]
	}
	return tags
}

package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordTagger_Hashtags(t *testing.T) {
	c := NewKeywordTagger(5)

	tags := c.SuggestTags("#deal #HotPrice great laptop offer")

	assert.Contains(t, tags, "deal")
	assert.Contains(t, tags, "hotprice")
	assert.Contains(t, tags, "electronics")
}

func TestKeywordTagger_MaxTags(t *testing.T) {
	c := NewKeywordTagger(2)

	tags := c.SuggestTags("#a #b #c #d")

	assert.Len(t, tags, 2)
}

func TestKeywordTagger_NoDuplicates(t *testing.T) {
	c := NewKeywordTagger(5)

	tags := c.SuggestTags("#deal #DEAL deal")

	assert.Equal(t, []string{"deal"}, tags)
}

func TestKeywordTagger_Empty(t *testing.T) {
	c := NewKeywordTagger(5)

	assert.Empty(t, c.SuggestTags(""))
}

package cache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingKeyParamOrderDoesNotMatter(t *testing.T) {
	a, _ := url.ParseQuery("category=plumbing&minPrice=100&page=2")
	b, _ := url.ParseQuery("page=2&category=plumbing&minPrice=100")
	c, _ := url.ParseQuery("minPrice=100&page=2&category=plumbing")

	ka := ListingKey(TopicServices, a, "")
	assert.Equal(t, ka, ListingKey(TopicServices, b, ""))
	assert.Equal(t, ka, ListingKey(TopicServices, c, ""))
}

func TestListingKeyDifferentFiltersDiffer(t *testing.T) {
	a, _ := url.ParseQuery("category=plumbing")
	b, _ := url.ParseQuery("category=cleaning")

	assert.NotEqual(t, ListingKey(TopicServices, a, ""), ListingKey(TopicServices, b, ""))
}

func TestListingKeyUserScope(t *testing.T) {
	params, _ := url.ParseQuery("page=1")

	anon := ListingKey(TopicConversations, params, "")
	u1 := ListingKey(TopicConversations, params, "user-1")
	u2 := ListingKey(TopicConversations, params, "user-2")

	assert.NotEqual(t, anon, u1)
	assert.NotEqual(t, u1, u2)
}

func TestListingKeySeparatorValuesDoNotAlias(t *testing.T) {
	// A value carrying the key's separator characters must not derive the
	// same key as the parameter set it spells out.
	a := url.Values{"a": {"1:b=2"}}
	b := url.Values{"a": {"1"}, "b": {"2"}}

	assert.NotEqual(t, ListingKey(TopicServices, a, ""), ListingKey(TopicServices, b, ""))
}

func TestListingKeyCanonicalizesNumbersAndBools(t *testing.T) {
	a, _ := url.ParseQuery("active=TRUE&minPrice=100.0")
	b, _ := url.ParseQuery("active=true&minPrice=100")

	assert.Equal(t, ListingKey(TopicServices, a, ""), ListingKey(TopicServices, b, ""))
}

func TestListingKeyDropsEmptyParams(t *testing.T) {
	a, _ := url.ParseQuery("category=plumbing&search=")
	b, _ := url.ParseQuery("category=plumbing")

	assert.Equal(t, ListingKey(TopicServices, a, ""), ListingKey(TopicServices, b, ""))
}

func TestDetailKey(t *testing.T) {
	assert.Equal(t, "services:id:42", DetailKey(TopicServices, "42"))
}

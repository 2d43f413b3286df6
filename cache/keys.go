package cache

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Cache key topics. Coarse invalidation deletes everything under a topic.
const (
	TopicServices      = "services"
	TopicCategories    = "categories"
	TopicConversations = "conversations"
)

// ListingKey derives the cache key for a listing endpoint from its topic,
// its effective query parameters and, for user-scoped responses, the
// authenticated user ID. The same logical request always yields the same
// key: parameters are sorted by name, values are canonicalized, and empty
// parameters are dropped. Names and values are escaped before joining so a
// value containing the separator characters cannot collide with a different
// parameter set.
func ListingKey(topic string, params url.Values, userID string) string {
	var b strings.Builder
	b.WriteString(topic)
	b.WriteString(":list")
	if userID != "" {
		b.WriteString(":u=")
		b.WriteString(url.QueryEscape(userID))
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := append([]string(nil), params[name]...)
		sort.Strings(values)
		for _, v := range values {
			if v == "" {
				continue
			}
			b.WriteString(":")
			b.WriteString(url.QueryEscape(name))
			b.WriteString("=")
			b.WriteString(url.QueryEscape(canonicalValue(v)))
		}
	}
	return b.String()
}

// DetailKey derives the cache key for a single resource by ID.
func DetailKey(topic, id string) string {
	return topic + ":id:" + id
}

// canonicalValue normalizes boolean and numeric parameter values so that
// "1"/"true"/"TRUE" or "10"/"10.0" do not alias into distinct keys.
func canonicalValue(v string) string {
	switch strings.ToLower(v) {
	case "true", "false":
		return strings.ToLower(v)
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return v
}

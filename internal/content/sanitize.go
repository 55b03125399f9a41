package content

import "github.com/microcosm-cc/bluemonday"

// policy is safe for concurrent use once built.
var policy = newPolicy()

// newPolicy allows the inline and structural tags used in authored posts.
// Anchors keep only an href with an http, https, mailto or relative URL;
// no rel attribute is added.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "br", "h1", "h2", "h3", "p")
	p.AllowStandardURLs()
	p.RequireNoFollowOnFullyQualifiedLinks(false)
	p.AllowAttrs("href").OnElements("a")
	return p
}

// Sanitize strips every tag and attribute outside the allow-list from raw,
// keeping the surrounding text. It never fails and is idempotent.
func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}

// Package affiliate rewrites Amazon product links to carry the configured
// Amazon Associates partner tag, and signs Product Advertising API requests.
package affiliate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// asinPatterns are tried in order; the first capture wins.
var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/ASIN/([A-Z0-9]{10})`),
	regexp.MustCompile(`\b(B0[A-Z0-9]{8})\b`),
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// ExtractASIN pulls an Amazon product ID out of a URL. It recognizes the
// /dp/, /gp/product/ and /ASIN/ path forms plus a bare B0-prefixed token,
// and returns "" when none match.
func ExtractASIN(rawURL string) string {
	for _, p := range asinPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// Linker builds and rewrites affiliate links for one partner tag.
type Linker struct {
	PartnerTag string
}

func NewLinker(partnerTag string) *Linker {
	return &Linker{PartnerTag: partnerTag}
}

// AffiliateLink builds a canonical tagged product link, or "" for an empty
// ASIN.
func (l *Linker) AffiliateLink(asin string) string {
	if asin == "" {
		return ""
	}
	return fmt.Sprintf("https://www.amazon.com/dp/%s/?tag=%s", asin, l.PartnerTag)
}

// ConvertLink rewrites an Amazon URL to its affiliate form. Non-Amazon URLs
// and URLs already carrying the partner tag pass through unchanged. When no
// ASIN can be extracted the tag parameter is appended to the cleaned URL
// instead of rebuilding it. The function never fails: anything unparseable
// comes back as-is.
func (l *Linker) ConvertLink(rawURL string) string {
	if l.PartnerTag == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || !isAmazonHost(u.Hostname()) {
		return rawURL
	}

	q := u.Query()
	if q.Get("tag") == l.PartnerTag {
		return rawURL
	}

	if asin := ExtractASIN(rawURL); asin != "" {
		return l.AffiliateLink(asin)
	}

	// No recognizable ASIN: keep the URL, just swap in our tag.
	q.Del("tag")
	q.Set("tag", l.PartnerTag)
	u.RawQuery = q.Encode()
	return u.String()
}

// RewriteText replaces every Amazon URL inside free text with its affiliate
// form, leaving all other URLs untouched.
func (l *Linker) RewriteText(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, l.ConvertLink)
}

func isAmazonHost(host string) bool {
	host = strings.ToLower(host)
	return host == "amzn.to" || strings.Contains(host, "amazon.")
}

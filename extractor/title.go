package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

var retailerTitleSelectors = []string{
	"#productTitle",                        // amazon
	`[data-test="product-title"]`,          // target
	`h1[itemprop="name"]`,                  // walmart
	`[data-automation-id="product-title"]`, // walmart
}

var genericTitleSelectors = []string{
	"h1",
	`[itemprop="name"]`,
	`[class*="product-title"]`,
	`[class*="title"]`,
	`[id*="title"]`,
	`[class*="product"]`,
	`[id*="product"]`,
}

// Amazon suffixes/prefixes the page title with its own branding.
var amazonTitleDecorRe = regexp.MustCompile(`(?i)^amazon\.com\s*:\s*|\s*[:\-–]\s*amazon\.com\s*$`)

// resolveTitle runs the retailer override, then retailer selectors, then
// generic candidates. A candidate only wins if its text length is plausible
// for a product name; anything longer is page body text.
func resolveTitle(doc *goquery.Document, pageURL string, maxLen int, logger types.Logger) *types.FieldValue {
	if maxLen <= 0 {
		maxLen = 200
	}

	if host := hostOf(pageURL); strings.Contains(host, "amazon.") {
		title := strings.TrimSpace(doc.Find("title").First().Text())
		title = strings.TrimSpace(amazonTitleDecorRe.ReplaceAllString(title, ""))
		if plausibleTitle(title, maxLen) {
			logger.Debugf("Title from amazon page title: %q", title)
			return &types.FieldValue{Selector: "title", Value: title}
		}
	}

	for _, selectors := range [][]string{retailerTitleSelectors, genericTitleSelectors} {
		for _, selector := range selectors {
			var found *types.FieldValue
			doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
				text := strings.TrimSpace(s.Text())
				if !plausibleTitle(text, maxLen) {
					return true
				}
				found = &types.FieldValue{Selector: cssSelector(s), Value: text}
				return false
			})
			if found != nil {
				logger.Debugf("Title from selector %s: %q", selector, found.Value)
				return found
			}
		}
	}

	if meta := readPageMeta(doc); meta.title() != "" && plausibleTitle(meta.title(), maxLen) {
		return &types.FieldValue{Selector: "meta", Value: meta.title()}
	}

	return nil
}

func plausibleTitle(text string, maxLen int) bool {
	return text != "" && len(text) <= maxLen
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

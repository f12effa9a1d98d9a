package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Retailer-specific price selectors, tried in listed order before anything
// generic. Amazon's offscreen nodes carry the clean price text.
var amazonPriceSelectors = []string{
	".a-price-whole",
	".a-price .a-offscreen",
	`[data-a-color="price"] .a-offscreen`,
	".a-price-range .a-offscreen",
	".a-price .a-price-whole",
	".a-price .a-price-fraction",
}

var targetPriceSelectors = []string{
	`[data-testid="product-price"]`,
	`[data-testid="price-current"]`,
	".price-current",
	".price",
	`[class*="price"]`,
}

var walmartPriceSelectors = []string{
	`[data-price-type="finalPrice"]`,
	".price-characteristic",
	".price-main",
	`[class*="price"]`,
}

// Broader generic list for the universal fallback, ahead of the scored
// full-body scan.
var universalPriceSelectors = []string{
	"[data-price]",
	"[data-current-price]",
	`[data-testid*="price"]`,
	".price",
	".current-price",
	".product-price",
	".sale-price",
	".final-price",
	".price__current",
	".price-item--regular",
	".money",
	".amount",
}

var (
	priceTextRe  = regexp.MustCompile(`\$\s?\d{1,3}(,\d{3})*(\.\d{2})?|\b\d+\.\d{2}\b`)
	exactPriceRe = regexp.MustCompile(`^\$\d{1,3}(,\d{3})*(\.\d{2})?$`)
	priceCharsRe = regexp.MustCompile(`[^\d.]`)
)

// Class/id tokens that raise or lower a scanned element's price score.
var (
	pricePositiveTokens = map[string]int{
		"price": 3, "current": 2, "sale": 2, "final": 2, "amount": 1, "total": 1,
	}
	priceNegativeTokens = map[string]int{
		"strike": 3, "was": 3, "list": 2, "original": 2, "msrp": 3,
		"compare": 2, "shipping": 3, "tax": 2, "per": 1,
	}
)

func containsPrice(text string) bool {
	return priceTextRe.MatchString(text)
}

// normalizePriceText strips everything but digits and dots and re-prefixes a
// single dollar sign. Returns "" when no digits survive.
func normalizePriceText(text string) string {
	cleaned := priceCharsRe.ReplaceAllString(text, "")
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return ""
	}
	return "$" + cleaned
}

// resolvePrice runs the strategy cascade and stops at the first success.
// Finding nothing is a legitimate outcome, not an error.
func resolvePrice(doc *goquery.Document, logger types.Logger) *types.FieldValue {
	if fv := priceFromStructuredData(doc, logger); fv != nil {
		logger.Debugf("Price from structured data: %s", fv.Value)
		return fv
	}

	for _, selectors := range [][]string{amazonPriceSelectors, targetPriceSelectors, walmartPriceSelectors} {
		if fv := priceFromSelectors(doc, selectors); fv != nil {
			logger.Debugf("Price from retailer selector %s: %s", fv.Selector, fv.Value)
			return fv
		}
	}

	if fv := priceFromSelectors(doc, []string{`[itemprop*="price"], [class*="price"], [id*="price"]`}); fv != nil {
		logger.Debugf("Price from semantic selector: %s", fv.Value)
		return fv
	}

	if fv := priceFromSelectors(doc, universalPriceSelectors); fv != nil {
		logger.Debugf("Price from universal selector: %s", fv.Value)
		return fv
	}

	if fv := priceFromBodyScan(doc); fv != nil {
		logger.Debugf("Price from scored body scan: %s", fv.Value)
		return fv
	}

	logger.Debug("No price found at any cascade stage")
	return nil
}

// priceFromStructuredData collects every valid offer price across the page's
// JSON-LD Product nodes and picks the maximum: shipping and add-on line items
// tend to be priced below the main listing. A direct price field is the
// fallback when no offer qualifies. The max rule is a heuristic tuned to that
// noise pattern and can misfire on true multi-price listings.
func priceFromStructuredData(doc *goquery.Document, logger types.Logger) *types.FieldValue {
	nodes := ldProductNodes(doc, logger)
	if len(nodes) == 0 {
		return nil
	}

	best := 0.0
	for _, node := range nodes {
		for _, offer := range ldOffers(node) {
			if p := parsePriceValue(offer["price"]); p > best {
				best = p
			}
		}
	}
	if best == 0 {
		for _, node := range nodes {
			if p := parsePriceValue(node["price"]); p > best {
				best = p
			}
		}
	}
	if best == 0 {
		return nil
	}

	return &types.FieldValue{
		Selector: "structured-data",
		Value:    formatPrice(best),
	}
}

// formatPrice renders a structured-data price in the "$123.45" shape the
// selector stages emit: two decimals whenever the amount has a fractional
// part, so "34.50" round-trips as "$34.50" rather than "$34.5".
func formatPrice(v float64) string {
	if v != math.Trunc(v) {
		return "$" + strconv.FormatFloat(v, 'f', 2, 64)
	}
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func parsePriceValue(v interface{}) float64 {
	switch p := v.(type) {
	case float64:
		if p > 0 {
			return p
		}
	case string:
		cleaned := priceCharsRe.ReplaceAllString(p, "")
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil && f > 0 {
			return f
		}
	}
	return 0
}

func priceFromSelectors(doc *goquery.Document, selectors []string) *types.FieldValue {
	for _, selector := range selectors {
		var found *types.FieldValue
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if !containsPrice(text) {
				return true
			}
			found = &types.FieldValue{
				Selector: cssSelector(s),
				Value:    normalizePriceText(priceTextRe.FindString(text)),
			}
			return false
		})
		if found != nil && found.Value != "" {
			return found
		}
	}
	return nil
}

// priceFromBodyScan is the last resort: walk every element whose own text
// looks like a price and score it by naming, shape and context. Highest score
// wins; listed-order breaks ties.
func priceFromBodyScan(doc *goquery.Document) *types.FieldValue {
	var best *goquery.Selection
	var bestText string
	bestScore := -1 << 30

	doc.Find("body *").Each(func(i int, s *goquery.Selection) {
		text := ownText(s)
		if text == "" || !containsPrice(text) {
			return
		}
		score := scorePriceCandidate(s, text)
		if score > bestScore {
			bestScore = score
			best = s
			bestText = text
		}
	})

	if best == nil {
		return nil
	}
	value := normalizePriceText(priceTextRe.FindString(bestText))
	if value == "" {
		return nil
	}
	return &types.FieldValue{
		Selector: cssSelector(best),
		Value:    value,
	}
}

func scorePriceCandidate(s *goquery.Selection, text string) int {
	score := 0
	naming := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))

	for token, weight := range pricePositiveTokens {
		if strings.Contains(naming, token) {
			score += weight
		}
	}
	for token, weight := range priceNegativeTokens {
		if strings.Contains(naming, token) {
			score -= weight
		}
	}

	// Struck-through text is a was-price by construction.
	switch goquery.NodeName(s) {
	case "del", "s", "strike":
		score -= 5
	}

	if exactPriceRe.MatchString(strings.TrimSpace(text)) {
		score += 2
	}

	// Proximity to a buy control or the product title marks the main price
	// block rather than a recommendation shelf.
	if s.Closest(`[class*="buy"], [class*="cart"], [class*="checkout"], [class*="purchase"], form[action*="cart"]`).Length() > 0 {
		score += 2
	}
	depth := 0
	s.Parents().EachWithBreak(func(i int, p *goquery.Selection) bool {
		depth++
		if depth > 3 {
			return false
		}
		if p.ChildrenFiltered("h1").Length() > 0 {
			score += 2
			return false
		}
		return true
	})

	return score
}

package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

var genericImageSelectors = []string{
	`img[class*="product"]`,
	`img[id*="product"]`,
	`img[src*="product"]`,
	`img[src*="item"]`,
	`[class*="gallery"] img`,
	`[class*="product-image"] img`,
}

// resolveImage runs the five-phase cascade: meta image, JSON-LD image,
// semantic HTML, generic product-image patterns, retailer-specific
// extraction, then the first sufficiently large rendered image. Each phase
// short-circuits on success.
func resolveImage(doc *goquery.Document, minPixels int, logger types.Logger) *types.FieldValue {
	meta := readPageMeta(doc)
	if img := meta.image(); img != "" {
		logger.Debugf("Image from meta tags: %s", img)
		return &types.FieldValue{Selector: "meta", Value: img}
	}

	for _, node := range ldProductNodes(doc, logger) {
		if urls := ldImages(node); len(urls) > 0 {
			logger.Debugf("Image from JSON-LD: %s", urls[0])
			return &types.FieldValue{Selector: "structured-data", Value: urls[0]}
		}
	}

	if fv := imageFromSemanticHTML(doc); fv != nil {
		logger.Debugf("Image from semantic markup: %s", fv.Value)
		return fv
	}

	if fv := imageFromSelectors(doc, genericImageSelectors); fv != nil {
		logger.Debugf("Image from generic selector: %s", fv.Value)
		return fv
	}

	if fv := imageFromAmazonDynamicMap(doc); fv != nil {
		logger.Debugf("Image from amazon dynamic map: %s", fv.Value)
		return fv
	}

	if fv := firstLargeImage(doc, minPixels); fv != nil {
		logger.Debugf("Image from size fallback: %s", fv.Value)
		return fv
	}

	return nil
}

func imageFromSemanticHTML(doc *goquery.Document) *types.FieldValue {
	var found *types.FieldValue

	doc.Find(`[itemprop="image"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		for _, attr := range []string{"src", "content", "href"} {
			if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
				found = &types.FieldValue{Selector: cssSelector(s), Value: v}
				return false
			}
		}
		return true
	})
	if found != nil {
		return found
	}

	if href := strings.TrimSpace(doc.Find(`link[rel="image_src"]`).First().AttrOr("href", "")); href != "" {
		return &types.FieldValue{Selector: `link[rel="image_src"]`, Value: href}
	}
	return nil
}

func imageFromSelectors(doc *goquery.Document, selectors []string) *types.FieldValue {
	for _, selector := range selectors {
		var found *types.FieldValue
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if src := strings.TrimSpace(s.AttrOr("src", "")); src != "" {
				found = &types.FieldValue{Selector: cssSelector(s), Value: src}
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// imageFromAmazonDynamicMap parses the data-a-dynamic-image attribute, a JSON
// map of URL to [width, height], and picks the entry with the largest first
// dimension, which is the high-resolution rendition.
func imageFromAmazonDynamicMap(doc *goquery.Document) *types.FieldValue {
	var found *types.FieldValue

	doc.Find("img[data-a-dynamic-image]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		raw := s.AttrOr("data-a-dynamic-image", "")
		raw = strings.ReplaceAll(raw, "&quot;", `"`)

		var dims map[string][]float64
		if err := json.Unmarshal([]byte(raw), &dims); err != nil {
			return true
		}

		bestURL, bestWidth := "", 0.0
		for u, wh := range dims {
			if len(wh) > 0 && wh[0] > bestWidth {
				bestURL, bestWidth = u, wh[0]
			}
		}
		if bestURL == "" {
			return true
		}
		found = &types.FieldValue{Selector: cssSelector(s), Value: bestURL}
		return false
	})

	return found
}

// firstLargeImage is the final fallback: the first image whose declared
// dimensions clear the minimum pixel size, skipping the icons and pixels that
// precede the product shot in document order.
func firstLargeImage(doc *goquery.Document, minPixels int) *types.FieldValue {
	if minPixels <= 0 {
		minPixels = 200
	}
	var found *types.FieldValue

	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return true
		}
		w, _ := strconv.Atoi(s.AttrOr("width", "0"))
		h, _ := strconv.Atoi(s.AttrOr("height", "0"))
		if w < minPixels || h < minPixels {
			return true
		}
		found = &types.FieldValue{Selector: cssSelector(s), Value: src}
		return false
	})

	return found
}

// collectImageCandidates gathers the URLs the cascade would consider, for
// ProductInfo.Meta. Order mirrors the cascade phases; duplicates are dropped.
func collectImageCandidates(doc *goquery.Document, logger types.Logger) []string {
	var candidates []string
	seen := make(map[string]bool)
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u != "" && !seen[u] {
			seen[u] = true
			candidates = append(candidates, u)
		}
	}

	meta := readPageMeta(doc)
	add(meta.ogImage)
	add(meta.twImage)
	for _, node := range ldProductNodes(doc, logger) {
		for _, u := range ldImages(node) {
			add(u)
		}
	}
	for _, selector := range genericImageSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			add(s.AttrOr("src", ""))
		})
	}

	return candidates
}

package extractor

import (
	"encoding/json"
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Attribute names accepted from a JSON-LD additionalProperty list.
var ldPropertyWhitelist = map[string]bool{
	"color":    true,
	"size":     true,
	"style":    true,
	"finish":   true,
	"capacity": true,
	"material": true,
}

// ldProductNodes collects every JSON-LD node of type Product or ProductModel
// on the page. Malformed JSON in one script block is skipped, never fatal;
// @graph wrappers and top-level arrays are flattened.
func ldProductNodes(doc *goquery.Document, logger types.Logger) []map[string]interface{} {
	var nodes []map[string]interface{}

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var data interface{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			logger.Debugf("Skipping malformed JSON-LD block %d: %v", i, err)
			return
		}

		for _, item := range flattenLDNodes(data) {
			if isProductNode(item) {
				nodes = append(nodes, item)
			}
		}
	})

	return nodes
}

func flattenLDNodes(data interface{}) []map[string]interface{} {
	var out []map[string]interface{}

	switch v := data.(type) {
	case []interface{}:
		for _, item := range v {
			out = append(out, flattenLDNodes(item)...)
		}
	case map[string]interface{}:
		if graph, ok := v["@graph"].([]interface{}); ok {
			for _, item := range graph {
				out = append(out, flattenLDNodes(item)...)
			}
			return out
		}
		out = append(out, v)
	}

	return out
}

// isProductNode accepts @type given as a single string or an array of types.
func isProductNode(node map[string]interface{}) bool {
	switch t := node["@type"].(type) {
	case string:
		return isProductType(t)
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && isProductType(s) {
				return true
			}
		}
	}
	return false
}

func isProductType(t string) bool {
	t = strings.TrimPrefix(t, "http://schema.org/")
	t = strings.TrimPrefix(t, "https://schema.org/")
	return t == "Product" || t == "ProductModel"
}

// parseStructuredData extracts variant attributes and a variant key from the
// page's JSON-LD Product nodes. When several nodes qualify, a later node only
// contributes what is still missing (a variant map when none was found yet, a
// key when none was found yet); otherwise the first-found candidate wins.
func parseStructuredData(doc *goquery.Document, logger types.Logger) *variantSignal {
	nodes := ldProductNodes(doc, logger)
	if len(nodes) == 0 {
		return nil
	}

	sig := newVariantSignal(sourceLDJSON)

	for _, node := range nodes {
		attrs := ldNodeAttributes(node)
		key := ldNodeVariantKey(node)

		if len(sig.attributes) == 0 {
			for name, value := range attrs {
				sig.setAttr(name, value)
			}
		}
		if sig.variantKey == "" {
			sig.variantKey = key
		}
		if len(sig.attributes) > 0 && sig.variantKey != "" {
			break
		}
	}

	if sig.empty() {
		return nil
	}

	logger.Debugf("JSON-LD signal: %d attributes, key=%q", len(sig.attributes), sig.variantKey)
	return sig
}

func ldNodeAttributes(node map[string]interface{}) map[string]string {
	attrs := make(map[string]string)

	if color, ok := node["color"].(string); ok && color != "" {
		attrs["color"] = color
	}
	if size, ok := node["size"].(string); ok && size != "" {
		attrs["size"] = size
	}

	props, ok := node["additionalProperty"].([]interface{})
	if !ok {
		return attrs
	}
	for _, p := range props {
		prop, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := prop["name"].(string)
		name = strings.ToLower(strings.TrimSpace(name))
		if !ldPropertyWhitelist[name] {
			continue
		}
		value := ldStringValue(prop["value"])
		if value == "" {
			continue
		}
		// First value seen per name wins.
		if _, exists := attrs[name]; !exists {
			attrs[name] = value
		}
	}

	return attrs
}

// ldNodeVariantKey prefers the first offer's SKU over the node's own.
func ldNodeVariantKey(node map[string]interface{}) string {
	for _, offer := range ldOffers(node) {
		if sku := ldStringValue(offer["sku"]); sku != "" {
			return sku
		}
		break // only offers[0] is consulted
	}
	return ldStringValue(node["sku"])
}

// ldOffers normalizes the offers field, which may be a single object or an
// array of objects.
func ldOffers(node map[string]interface{}) []map[string]interface{} {
	var offers []map[string]interface{}

	switch v := node["offers"].(type) {
	case map[string]interface{}:
		offers = append(offers, v)
	case []interface{}:
		for _, item := range v {
			if offer, ok := item.(map[string]interface{}); ok {
				offers = append(offers, offer)
			}
		}
	}

	return offers
}

// ldImages returns the node's image URLs; the field may be a string, an array
// or an ImageObject.
func ldImages(node map[string]interface{}) []string {
	var urls []string

	switch v := node["image"].(type) {
	case string:
		if v != "" {
			urls = append(urls, v)
		}
	case []interface{}:
		for _, item := range v {
			switch img := item.(type) {
			case string:
				if img != "" {
					urls = append(urls, img)
				}
			case map[string]interface{}:
				if u := ldStringValue(img["url"]); u != "" {
					urls = append(urls, u)
				}
			}
		}
	case map[string]interface{}:
		if u := ldStringValue(v["url"]); u != "" {
			urls = append(urls, u)
		}
	}

	return urls
}

func ldStringValue(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

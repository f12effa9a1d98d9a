package extractor

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Keys whose object value holds the currently selected variant in embedded
// application state. Compared case-insensitively.
var selectedStateKeys = map[string]bool{
	"selected":        true,
	"selectedvariant": true,
	"currentvariant":  true,
	"activevariant":   true,
	"chosenvariant":   true,
}

// Sub-keys of a selected-variant object that are accepted as variant
// attributes.
var embeddedAttrKeys = map[string]bool{
	"color":    true,
	"size":     true,
	"style":    true,
	"finish":   true,
	"material": true,
	"capacity": true,
	"width":    true,
	"length":   true,
	"height":   true,
}

var (
	// Script ids that suggest app state, config or product data.
	stateScriptIDRe = regexp.MustCompile(`(?i)(state|config|product|variant|data)`)

	// Cheap pre-filter run before attempting a JSON parse.
	stateKeywordRe = regexp.MustCompile(`(?i)variant|sku|color|size|selected|asin|tcin`)
)

// Keys that carry a retailer variant/item identifier, checked in this order.
// State blobs routinely carry several of these side by side (sku plus
// productId, say), so the priority has to be fixed or the resolved key would
// depend on map iteration order.
var retailerIDKeys = []string{
	"asin", "tcin", "sku", "skuid", "variantid", "productid",
	"itemnumber", "dpci", "upc", "ean", "gtin",
}

// parseEmbeddedState walks inline JSON blobs (application/json scripts and
// state-looking script ids) for a selected-variant object and a retailer id.
// Parse failures skip the block; nothing here is fatal.
func parseEmbeddedState(doc *goquery.Document, logger types.Logger) *variantSignal {
	sig := newVariantSignal(sourceEmbedded)

	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		typ := strings.ToLower(s.AttrOr("type", ""))
		if typ == "application/ld+json" {
			return // handled by the structured-data parser
		}
		id := s.AttrOr("id", "")
		if typ != "application/json" && !(id != "" && stateScriptIDRe.MatchString(id)) {
			return
		}

		raw := strings.TrimSpace(s.Text())
		if raw == "" || !stateKeywordRe.MatchString(raw) {
			return
		}

		var data interface{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			logger.Debugf("Skipping unparseable state script %q: %v", id, err)
			return
		}

		walkEmbeddedState(data, sig)
	})

	if sig.empty() {
		return nil
	}

	logger.Debugf("Embedded signal: %v, key=%q", sig.attributes, sig.variantKey)
	return sig
}

// walkEmbeddedState is a depth-first visitor over a decoded JSON tree. Every
// key at every depth is inspected; the first retailer id found wins and is
// never overwritten by a later match. Object keys are visited in sorted order
// so repeated runs over the same blob resolve identically.
func walkEmbeddedState(v interface{}, sig *variantSignal) {
	switch node := v.(type) {
	case map[string]interface{}:
		if sig.variantKey == "" {
			sig.variantKey = retailerIDFromNode(node)
		}
		for _, key := range sortedKeys(node) {
			val := node[key]
			if selectedStateKeys[strings.ToLower(key)] {
				if selected, ok := val.(map[string]interface{}); ok {
					collectSelectedAttrs(selected, sig)
				}
			}
			walkEmbeddedState(val, sig)
		}
	case []interface{}:
		for _, item := range node {
			walkEmbeddedState(item, sig)
		}
	}
}

// retailerIDFromNode resolves one node's own id keys in the fixed priority
// order, so a blob carrying both sku and productId always yields the same key.
func retailerIDFromNode(node map[string]interface{}) string {
	for _, name := range retailerIDKeys {
		for _, key := range sortedKeys(node) {
			if strings.ToLower(key) != name {
				continue
			}
			if s, ok := node[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func collectSelectedAttrs(selected map[string]interface{}, sig *variantSignal) {
	for _, key := range sortedKeys(selected) {
		name := strings.ToLower(key)
		if !embeddedAttrKeys[name] {
			continue
		}
		if s, ok := selected[key].(string); ok && strings.TrimSpace(s) != "" {
			sig.setAttr(name, strings.TrimSpace(s))
		}
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

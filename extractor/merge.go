package extractor

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

var (
	amazonDPRe    = regexp.MustCompile(`/dp/([A-Za-z0-9]{10})(?:[/?]|$)`)
	amazonGPRe    = regexp.MustCompile(`/gp/product/([A-Za-z0-9]+)(?:[/?]|$)`)
	walmartItemRe = regexp.MustCompile(`/ip/(?:[^/]+/)*?(\d+)(?:[/?]|$)`)
	targetItemRe  = regexp.MustCompile(`/-/A-(\d+)(?:[/?]|$)`)
)

// URL parameter names that may carry the variant key.
var variantKeyParams = []string{"sku", "skuId", "asin", "tcin", "itemId", "variantId"}

// retailerKeyFromURL derives a variant key from known retailer URL shapes.
// Anything that fails to match yields no key, never an error.
func retailerKeyFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	if m := amazonDPRe.FindStringSubmatch(raw); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := amazonGPRe.FindStringSubmatch(raw); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := walmartItemRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := targetItemRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

// mergeSignals combines the parser outputs under the fixed precedence policy:
// DOM-derived values always win (the DOM reflects the user's live selection);
// the other sources fill an attribute only when it is still unset, evaluated
// in ld+json, og/meta, embedded order. Every contributing parser is recorded
// in the source sequence whether or not its values won. Implausible colors
// are rejected from any source.
func mergeSignals(signals []*variantSignal, pageURL, canonicalURL string, doc *goquery.Document) *types.VariantInfo {
	info := &types.VariantInfo{
		SelectedVariant: make(map[string]string),
	}

	for _, sig := range signals {
		if sig.empty() {
			continue
		}
		info.Source = append(info.Source, sig.source)

		for name, value := range sig.attributes {
			if name == "color" && !isPlausibleColor(value) {
				continue
			}
			if sig.source == sourceDOM {
				info.SelectedVariant[name] = value
				continue
			}
			if _, set := info.SelectedVariant[name]; !set {
				info.SelectedVariant[name] = value
			}
		}

		if info.VariantKey == "" && sig.variantKey != "" {
			info.VariantKey = sig.variantKey
		}

		for name, values := range sig.options {
			if info.Options == nil {
				info.Options = make(map[string][]string)
			}
			if _, set := info.Options[name]; !set {
				info.Options[name] = values
			}
		}
	}

	if info.VariantKey == "" {
		source := canonicalURL
		if source == "" {
			source = pageURL
		}
		info.VariantKey = retailerKeyFromURL(source)
	}

	info.VariantSelectorData = buildSelectorData(info, pageURL, doc)

	return info
}

// buildSelectorData captures what a later pass needs to re-drive the same
// selection: the page's query parameters, a group/option selector pair per
// resolved attribute, and the query parameter that carries the variant key.
func buildSelectorData(info *types.VariantInfo, pageURL string, doc *goquery.Document) *types.SelectorData {
	data := &types.SelectorData{}

	if u, err := url.Parse(pageURL); err == nil {
		params := u.Query()
		if len(params) > 0 {
			data.URLParams = make(map[string]string, len(params))
			for name, values := range params {
				if len(values) > 0 {
					data.URLParams[name] = values[0]
				}
			}
		}
		if info.VariantKey != "" {
			for _, param := range variantKeyParams {
				if params.Get(param) == info.VariantKey {
					data.KeyParam = param
					break
				}
			}
		}
	}

	if doc != nil && len(info.SelectedVariant) > 0 {
		groups := findVariantGroups(doc)
		names := make([]string, 0, len(info.SelectedVariant))
		for name := range info.SelectedVariant {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			hint, ok := selectorHintFor(groups, name, info.SelectedVariant[name])
			if ok {
				data.Hints = append(data.Hints, hint)
			}
		}
	}

	if data.KeyParam == "" && len(data.URLParams) == 0 && len(data.Hints) == 0 {
		return nil
	}
	return data
}

// selectorHintFor re-queries the discovered groups for one by name, then
// locates the option matching the resolved value.
func selectorHintFor(groups []variantGroup, name, value string) (types.SelectorHint, bool) {
	for _, g := range groups {
		if g.name != name {
			continue
		}
		for idx, opt := range g.options {
			if !strings.EqualFold(optionValue(opt), value) {
				continue
			}
			return types.SelectorHint{
				Name:           name,
				Value:          value,
				GroupSelector:  cssSelector(g.sel),
				OptionIndex:    idx,
				OptionSelector: cssSelector(opt),
			}, true
		}
	}
	return types.SelectorHint{}, false
}

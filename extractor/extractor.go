// Package extractor converts an arbitrary product page's DOM into a
// normalized ProductInfo record. Four independent signal parsers (JSON-LD,
// meta tags, embedded JSON state, live DOM selection) feed a merge engine
// with a fixed precedence policy; price, title and image come from their own
// strategy cascades. Everything is heuristic: a parser that finds nothing
// contributes nothing, and the worst outcome is a ProductInfo with absent
// fields, never an error.
package extractor

import (
	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Extractor is the page extraction facade. One instance owns one per-URL
// variant cache; construct independent instances for independent sessions.
type Extractor struct {
	config *types.Config
	logger types.Logger
	cache  *VariantCache
}

// New creates an extractor with its own empty cache
func New(config *types.Config, logger types.Logger) *Extractor {
	if config == nil {
		config = types.DefaultConfig()
	}
	return &Extractor{
		config: config,
		logger: logger,
		cache:  NewVariantCache(),
	}
}

// Cache exposes the per-URL variant cache
func (e *Extractor) Cache() *VariantCache {
	return e.cache
}

// Extract runs the full pipeline over one document snapshot. The parsers and
// resolvers are pure over the document; the only side effect is overwriting
// this URL's cache entry. Running twice against an unchanged document yields
// an identical ProductInfo.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) *types.ProductInfo {
	meta := readPageMeta(doc)

	signals := []*variantSignal{
		parseStructuredData(doc, e.logger),
		parseMetaTags(doc, pageURL, e.logger),
		parseEmbeddedState(doc, e.logger),
		parseDOMSelection(doc, e.logger),
	}

	variantInfo := mergeSignals(signals, pageURL, meta.canonical, doc)
	e.cache.Set(pageURL, variantInfo)

	price := resolvePrice(doc, e.logger)
	title := resolveTitle(doc, pageURL, e.config.MaxTitleLength, e.logger)
	image := resolveImage(doc, e.config.MinImagePixels, e.logger)

	info := &types.ProductInfo{
		Title:       title,
		Price:       price,
		Image:       image,
		URL:         pageURL,
		Variants:    copyVariants(variantInfo.SelectedVariant),
		VariantInfo: variantInfo,
		Meta: &types.ProductMeta{
			CanonicalURL:    meta.canonical,
			ImageCandidates: collectImageCandidates(doc, e.logger),
			FieldSources:    fieldSources(price, title, image),
		},
	}

	e.logger.Debugf("Extracted product info for %s: title=%v price=%v variants=%d",
		pageURL, title != nil, price != nil, len(info.Variants))

	return info
}

func copyVariants(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// fieldSources tags where each resolved field came from: a synthetic selector
// name for non-DOM sources, "dom" otherwise.
func fieldSources(price, title, image *types.FieldValue) map[string]string {
	sources := make(map[string]string)
	tag := func(field string, fv *types.FieldValue) {
		if fv == nil {
			return
		}
		switch fv.Selector {
		case "structured-data", "meta", "title":
			sources[field] = fv.Selector
		default:
			sources[field] = "dom"
		}
	}
	tag("price", price)
	tag("title", title)
	tag("image", image)
	return sources
}

package extractor

import (
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// pageMeta is everything worth reading out of the document head in one pass.
type pageMeta struct {
	canonical      string
	ogTitle        string
	ogDescription  string
	ogImage        string
	twTitle        string
	twDescription  string
	twImage        string
	description    string
	keywords       string
	metaTitle      string
	docTitle       string
	retailerItemID string
}

func readPageMeta(doc *goquery.Document) pageMeta {
	m := pageMeta{
		canonical:      doc.Find(`link[rel="canonical"]`).First().AttrOr("href", ""),
		ogTitle:        metaContent(doc, `meta[property="og:title"]`),
		ogDescription:  metaContent(doc, `meta[property="og:description"]`),
		ogImage:        metaContent(doc, `meta[property="og:image"]`),
		twTitle:        metaContent(doc, `meta[name="twitter:title"]`),
		twDescription:  metaContent(doc, `meta[name="twitter:description"]`),
		twImage:        metaContent(doc, `meta[name="twitter:image"]`),
		description:    metaContent(doc, `meta[name="description"]`),
		keywords:       metaContent(doc, `meta[name="keywords"]`),
		metaTitle:      metaContent(doc, `meta[name="title"]`),
		retailerItemID: metaContent(doc, `meta[property="product:retailer_item_id"]`),
	}
	m.docTitle = strings.TrimSpace(doc.Find("title").First().Text())
	return m
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

// title resolves OG > Twitter > standard meta > document title.
func (m pageMeta) title() string {
	for _, t := range []string{m.ogTitle, m.twTitle, m.metaTitle, m.docTitle} {
		if t != "" {
			return t
		}
	}
	return ""
}

func (m pageMeta) descriptionText() string {
	for _, d := range []string{m.ogDescription, m.twDescription, m.description} {
		if d != "" {
			return d
		}
	}
	return ""
}

func (m pageMeta) image() string {
	if m.ogImage != "" {
		return m.ogImage
	}
	return m.twImage
}

// parseMetaTags opportunistically sniffs a color and a size out of the page's
// title and description text, and picks up the retailer item id when the
// storefront publishes one.
func parseMetaTags(doc *goquery.Document, pageURL string, logger types.Logger) *variantSignal {
	m := readPageMeta(doc)
	sig := newVariantSignal(sourceMeta)

	text := strings.TrimSpace(m.title() + " " + m.descriptionText())
	if text != "" {
		if color := detectColor(text); color != "" {
			sig.setAttr("color", color)
		}
		if size := detectSize(text); size != "" {
			sig.setAttr("size", size)
		}
	}

	sig.variantKey = m.retailerItemID
	if sig.variantKey == "" {
		source := m.canonical
		if source == "" {
			source = pageURL
		}
		sig.variantKey = retailerKeyFromURL(source)
	}

	if sig.empty() {
		return nil
	}

	logger.Debugf("Meta signal: %v, key=%q", sig.attributes, sig.variantKey)
	return sig
}

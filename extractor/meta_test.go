package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPageMeta_TitlePrecedence(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<title>Doc Title</title>
	<meta name="title" content="Meta Title">
	<meta name="twitter:title" content="Twitter Title">
	<meta property="og:title" content="OG Title">
	</head><body></body></html>`)

	m := readPageMeta(doc)

	assert.Equal(t, "OG Title", m.title())
	assert.Equal(t, "Doc Title", m.docTitle)
}

func TestReadPageMeta_TitleFallsBackToDocTitle(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>  Only the Doc Title  </title></head><body></body></html>`)

	assert.Equal(t, "Only the Doc Title", readPageMeta(doc).title())
}

func TestParseMetaTags_ColorAndSizeFromText(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<meta property="og:title" content="Trail Tee - Midnight Blue">
	<meta name="description" content="Soft cotton tee, available in XL and more.">
	</head><body></body></html>`)

	sig := parseMetaTags(doc, "https://shop.example.com/tee", testLogger())

	require.NotNil(t, sig)
	assert.Equal(t, sourceMeta, sig.source)
	assert.Equal(t, "Midnight Blue", sig.attributes["color"])
	assert.Equal(t, "XL", sig.attributes["size"])
}

func TestParseMetaTags_RetailerItemID(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<meta property="og:title" content="Trail Tee - Navy">
	<meta property="product:retailer_item_id" content="SKU-991">
	</head><body></body></html>`)

	sig := parseMetaTags(doc, "https://shop.example.com/tee", testLogger())

	require.NotNil(t, sig)
	assert.Equal(t, "SKU-991", sig.variantKey)
}

func TestParseMetaTags_CanonicalRetailerKey(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<link rel="canonical" href="https://www.amazon.com/dp/B08N5WRWNW">
	<meta property="og:title" content="Wireless Speaker - Charcoal">
	</head><body></body></html>`)

	sig := parseMetaTags(doc, "https://www.amazon.com/gp/whatever", testLogger())

	require.NotNil(t, sig)
	assert.Equal(t, "B08N5WRWNW", sig.variantKey)
}

func TestParseMetaTags_NothingFound(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>Checkout</title></head><body></body></html>`)

	assert.Nil(t, parseMetaTags(doc, "https://shop.example.com/checkout", testLogger()))
}

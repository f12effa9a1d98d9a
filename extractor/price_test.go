package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePriceText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$19.99", "$19.99"},
		{"USD 1,299.00", "$1299.00"},
		{"  $5  ", "$5"},
		{"29.95", "$29.95"},
		{"no digits", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePriceText(tt.in), "input %q", tt.in)
	}
}

func TestContainsPrice(t *testing.T) {
	assert.True(t, containsPrice("$19.99"))
	assert.True(t, containsPrice("$ 1,299"))
	assert.True(t, containsPrice("only 12.50 today"))
	assert.False(t, containsPrice("free shipping"))
	assert.False(t, containsPrice("version 2"))
}

func TestPriceFromStructuredData_SingleOffer(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "offers": {"price": "19.99", "priceCurrency": "USD"}}
	</script>
	</head><body></body></html>`)

	fv := priceFromStructuredData(doc, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "$19.99", fv.Value)
	assert.Equal(t, "structured-data", fv.Selector)
}

func TestPriceFromStructuredData_MaxAcrossOffers(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "offers": [
	  {"price": "5.00"}, {"price": 49.99}, {"price": "12.00"}
	]}
	</script>
	</head><body></body></html>`)

	fv := priceFromStructuredData(doc, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "$49.99", fv.Value)
}

func TestPriceFromStructuredData_DirectPriceFallback(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "price": "34.50"}
	</script>
	</head><body></body></html>`)

	fv := priceFromStructuredData(doc, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "$34.50", fv.Value)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$34.50", formatPrice(34.5))
	assert.Equal(t, "$19.99", formatPrice(19.99))
	assert.Equal(t, "$5", formatPrice(5))
	assert.Equal(t, "$1299", formatPrice(1299))
}

func TestResolvePrice_AmazonSelectors(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<span class="a-price"><span class="a-offscreen">$24.99</span></span>
	</body></html>`)

	fv := resolvePrice(doc, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "$24.99", fv.Value)
}

func TestResolvePrice_SemanticSelector(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<div class="product-info"><span itemprop="price">$15.00</span></div>
	</body></html>`)

	fv := resolvePrice(doc, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "$15.00", fv.Value)
}

func TestResolvePrice_BodyScanPrefersCurrentOverWasPrice(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<h1>Trail Tee</h1>
	<div>
	  <del>$29.99</del>
	  <span data-role="main">$19.99</span>
	</div>
	</body></html>`)

	fv := resolvePrice(doc, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "$19.99", fv.Value)
}

func TestResolvePrice_NothingFound(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>Sign in to see pricing</p></body></html>`)

	assert.Nil(t, resolvePrice(doc, testLogger()))
}

func TestScorePriceCandidate(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<div class="buy-box">
	  <span id="current" class="price current">$19.99</span>
	  <span id="was" class="price was-price strike">$29.99</span>
	</div>
	</body></html>`)

	current := doc.Find("#current")
	was := doc.Find("#was")

	assert.Greater(t,
		scorePriceCandidate(current, "$19.99"),
		scorePriceCandidate(was, "$29.99"))
}

func TestParsePriceValue(t *testing.T) {
	assert.Equal(t, 19.99, parsePriceValue("$19.99"))
	assert.Equal(t, 49.99, parsePriceValue(49.99))
	assert.Equal(t, 0.0, parsePriceValue("free"))
	assert.Equal(t, 0.0, parsePriceValue(nil))
	assert.Equal(t, 0.0, parsePriceValue(-5.0))
}

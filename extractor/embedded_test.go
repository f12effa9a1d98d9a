package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmbeddedState_SelectedVariant(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<script type="application/json" id="product-state">
	{
	  "product": {
	    "sku": "EMB-100",
	    "selectedVariant": {"color": "Olive", "size": "L", "inventory": "3"}
	  }
	}
	</script>
	</body></html>`)

	sig := parseEmbeddedState(doc, testLogger())

	require.NotNil(t, sig)
	assert.Equal(t, sourceEmbedded, sig.source)
	assert.Equal(t, "Olive", sig.attributes["color"])
	assert.Equal(t, "L", sig.attributes["size"])
	assert.NotContains(t, sig.attributes, "inventory")
	assert.Equal(t, "EMB-100", sig.variantKey)
}

func TestParseEmbeddedState_StateLookingScriptID(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<script id="__NEXT_DATA__">
	{"props": {"pageProps": {"tcin": "87654321"}}}
	</script>
	</body></html>`)

	sig := parseEmbeddedState(doc, testLogger())

	require.NotNil(t, sig)
	assert.Equal(t, "87654321", sig.variantKey)
}

func TestParseEmbeddedState_IgnoresLDJSONAndPlainScripts(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<script type="application/ld+json">{"@type": "Product", "sku": "LD-SKU"}</script>
	<script>var selectedColor = "red";</script>
	</body></html>`)

	assert.Nil(t, parseEmbeddedState(doc, testLogger()))
}

func TestParseEmbeddedState_UnparseableBlockSkipped(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<script type="application/json" id="broken-state">{"sku": </script>
	<script type="application/json" id="good-state">{"variantId": "V-77"}</script>
	</body></html>`)

	sig := parseEmbeddedState(doc, testLogger())

	require.NotNil(t, sig)
	assert.Equal(t, "V-77", sig.variantKey)
}

func TestParseEmbeddedState_SiblingIDKeysResolveStably(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<script type="application/json" id="product-state">
	{"sku": "SKU-1", "asin": "ASIN-2", "tcin": "TCIN-3", "variantId": "VAR-4", "productId": "PROD-5"}
	</script>
	</body></html>`)

	for i := 0; i < 50; i++ {
		sig := parseEmbeddedState(doc, testLogger())
		require.NotNil(t, sig)
		assert.Equal(t, "ASIN-2", sig.variantKey)
	}
}

func TestWalkEmbeddedState_BranchesVisitedInSortedOrder(t *testing.T) {
	for i := 0; i < 50; i++ {
		sig := newVariantSignal(sourceEmbedded)

		walkEmbeddedState(map[string]interface{}{
			"zeta":  map[string]interface{}{"selected": map[string]interface{}{"color": "Red"}},
			"alpha": map[string]interface{}{"selected": map[string]interface{}{"color": "Blue"}},
		}, sig)

		assert.Equal(t, "Blue", sig.attributes["color"])
	}
}

func TestWalkEmbeddedState_FirstIDWins(t *testing.T) {
	sig := newVariantSignal(sourceEmbedded)

	walkEmbeddedState(map[string]interface{}{
		"asin": "B000000001",
	}, sig)
	walkEmbeddedState(map[string]interface{}{
		"sku": "LATER",
	}, sig)

	assert.Equal(t, "B000000001", sig.variantKey)
}

package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTitle_AmazonPageTitleOverride(t *testing.T) {
	doc := mustDoc(t, `<html><head>
	<title>Amazon.com : Wireless Speaker with Deep Bass</title>
	</head><body><h1 id="other">Customers also bought</h1></body></html>`)

	fv := resolveTitle(doc, "https://www.amazon.com/dp/B08N5WRWNW", 200, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "Wireless Speaker with Deep Bass", fv.Value)
	assert.Equal(t, "title", fv.Selector)
}

func TestResolveTitle_RetailerSelectorBeatsGenericH1(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<h1>Shop the sale</h1>
	<span id="productTitle">Trailblazer 40L Pack</span>
	</body></html>`)

	fv := resolveTitle(doc, "https://shop.example.com/p", 200, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "Trailblazer 40L Pack", fv.Value)
}

func TestResolveTitle_GenericH1(t *testing.T) {
	doc := mustDoc(t, `<html><body><h1>Trail Tee</h1></body></html>`)

	fv := resolveTitle(doc, "https://shop.example.com/p", 200, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "Trail Tee", fv.Value)
}

func TestResolveTitle_OverlongCandidateSkipped(t *testing.T) {
	long := strings.Repeat("x", 250)
	doc := mustDoc(t, `<html><head>
	<meta property="og:title" content="Trail Tee">
	</head><body><h1>`+long+`</h1></body></html>`)

	fv := resolveTitle(doc, "https://shop.example.com/p", 200, testLogger())

	require.NotNil(t, fv)
	assert.Equal(t, "Trail Tee", fv.Value)
	assert.Equal(t, "meta", fv.Selector)
}

func TestResolveTitle_NothingPlausible(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>`+strings.Repeat("y", 300)+`</p></body></html>`)

	assert.Nil(t, resolveTitle(doc, "https://shop.example.com/p", 200, testLogger()))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "www.amazon.com", hostOf("https://www.Amazon.com/dp/B08N5WRWNW"))
	assert.Equal(t, "", hostOf("://bad"))
}

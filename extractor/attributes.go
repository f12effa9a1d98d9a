package extractor

import (
	"regexp"
	"strings"
)

// Known color words, including the compound fashion shades storefronts use as
// swatch labels. Matched case-insensitively on word boundaries.
var colorTokens = []string{
	"black", "white", "red", "blue", "green", "yellow", "orange", "purple",
	"pink", "brown", "gray", "grey", "navy", "teal", "maroon", "burgundy",
	"charcoal", "ivory", "beige", "tan", "khaki", "olive", "mint", "coral",
	"salmon", "lavender", "lilac", "plum", "mauve", "rust", "copper",
	"bronze", "gold", "silver", "rose", "blush", "cream", "sand", "stone",
	"slate", "graphite", "gunmetal", "onyx", "ebony", "pearl", "champagne",
	"taupe", "mustard", "ochre", "indigo", "violet", "magenta", "fuchsia",
	"crimson", "scarlet", "cherry", "wine", "emerald", "sage", "seafoam",
	"turquoise", "aqua", "cyan", "cobalt", "denim", "heather", "oatmeal",
	"espresso", "mocha", "chocolate", "caramel", "camel", "nude",
}

// Modifiers that form descriptive compounds like "Midnight Blue" or
// "Washed Black".
var colorModifiers = `(?:light|dark|deep|bright|pale|dusty|vintage|washed|matte|glossy|midnight|forest|royal|hot|neon|pastel|soft|warm|cool|true|rich|sky|ice|hunter)`

var (
	colorRe     *regexp.Regexp
	sizeUnitRe  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:oz|ml|l|g|kg|lbs?|inch|in|cm|mm|ft|gb|tb|qt|gal)\b`)
	sizeShortRe = regexp.MustCompile(`\b(?:XXS|XS|S|M|L|XL|XXL|XXXL|[23]XL)\b`)
	sizeWordRe  = regexp.MustCompile(`(?i)\b(?:xx?-?small|small|medium|large|xx?-?large)\b`)
)

// Product and category nouns that mean a candidate "color" is really a
// product title or marketing name. Generic selectors latch onto these
// constantly, so any hit rejects the value.
var colorBlacklistRe = regexp.MustCompile(`(?i)\b(?:backpack|laptop|shirt|t-shirt|tee|hoodie|sweater|jacket|coat|pants|jeans|shorts|skirt|dress|shoe|shoes|sneaker|boot|sandal|sofa|couch|table|chair|desk|dresser|cabinet|shelf|phone|tablet|monitor|keyboard|mouse|headphones|speaker|charger|cable|bottle|mug|tumbler|bag|tote|wallet|watch|classic|premium|deluxe|edition|bundle|pack|kit|collection|series)\b`)

const maxColorLength = 30

func init() {
	pattern := `(?i)\b(?:` + colorModifiers + `[ -])?(?:` + strings.Join(colorTokens, "|") + `)\b`
	colorRe = regexp.MustCompile(pattern)
}

// isPlausibleColor reports whether a candidate string looks like a color
// swatch label rather than a product title or descriptor.
func isPlausibleColor(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxColorLength {
		return false
	}
	return !colorBlacklistRe.MatchString(s)
}

// detectColor finds the first color-looking phrase in free text (page titles,
// meta descriptions). Returns "" when nothing matches.
func detectColor(text string) string {
	match := colorRe.FindString(text)
	if match == "" {
		return ""
	}
	match = strings.TrimSpace(match)
	if !isPlausibleColor(match) {
		return ""
	}
	return match
}

// detectSize finds a unit-suffixed quantity ("64 GB", "12 oz") or a named
// garment size in free text. Short forms (S, M, XL) only match in upper case
// to keep single letters from firing on ordinary prose.
func detectSize(text string) string {
	if m := sizeUnitRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if m := sizeShortRe.FindString(text); m != "" {
		return m
	}
	if m := sizeWordRe.FindString(text); m != "" {
		return m
	}
	return ""
}

// normalizeAttrName lower-cases an attribute name and folds spelling variants
// onto the canonical form used in SelectedVariant keys.
func normalizeAttrName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ":")
	if name == "colour" || name == "colours" || name == "colors" {
		return "color"
	}
	name = strings.TrimSuffix(name, "s")
	if name == "colour" {
		return "color"
	}
	return name
}

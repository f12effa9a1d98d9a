package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"dealtrack/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Broad net for variant group containers. Matches ARIA widgets and the
// class/id/data-attribute conventions storefront themes actually use.
var variantGroupSelectors = strings.Join([]string{
	`[role="radiogroup"]`,
	`[role="listbox"]`,
	`[data-attribute-name]`,
	`fieldset`,
	`[class*="variant"]`,
	`[id*="variant"]`,
	`[class*="swatch"]`,
	`[class*="option"]`,
	`[id*="option"]`,
	`[class*="color"]`,
	`[class*="size"]`,
	`[class*="style"]`,
}, ", ")

// Clickable things inside a group that can represent one option.
var optionSelectors = strings.Join([]string{
	`input[type="radio"]`,
	`[role="radio"]`,
	`[role="option"]`,
	`button`,
	`[data-value]`,
	`[data-color]`,
	`[data-size]`,
}, ", ")

var (
	// Short label texts that name a variant attribute ("Color:", "Size").
	attrNameRe = regexp.MustCompile(`(?i)^(colou?rs?|sizes?|styles?|finish(?:es)?|materials?|capacit(?:y|ies)|widths?|lengths?|heights?|fits?|patterns?)\b`)

	selectedTokenRe = regexp.MustCompile(`(?i)selected`)

	// Inline border/outline widths; a thick one marks the active swatch on
	// themes that signal selection purely visually.
	borderWidthRe = regexp.MustCompile(`(?i)(?:border(?:-(?:top|right|bottom|left))?(?:-width)?|outline(?:-width)?)\s*:\s*(?:[a-z]+\s+)*?(\d+(?:\.\d+)?)px`)
)

// Swatch borders of 1px are routine decoration; anything from here up reads
// as the selection highlight convention.
const minSelectedBorderPx = 2.0

type variantGroup struct {
	name     string
	sel      *goquery.Selection
	options  []*goquery.Selection
	selected int // index into options, -1 if none detected
}

// parseDOMSelection reads the user's live variant selection off the page:
// find candidate groups, name them, enumerate their options and pick the one
// that looks selected.
func parseDOMSelection(doc *goquery.Document, logger types.Logger) *variantSignal {
	sig := newVariantSignal(sourceDOM)

	for _, g := range findVariantGroups(doc) {
		if g.name == "" {
			continue
		}
		values := make([]string, 0, len(g.options))
		for _, opt := range g.options {
			if v := optionValue(opt); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			if sig.options == nil {
				sig.options = make(map[string][]string)
			}
			if _, ok := sig.options[g.name]; !ok {
				sig.options[g.name] = values
			}
		}

		if g.selected < 0 {
			continue
		}
		value := optionValue(g.options[g.selected])
		if value == "" {
			continue
		}
		sig.setAttr(g.name, value)
	}

	if sig.empty() {
		return nil
	}

	logger.Debugf("DOM signal: %v", sig.attributes)
	return sig
}

// findVariantGroups locates and names the variant controls on the page.
// Containers with no inferable name contribute nothing, which naturally
// filters out the page-level wrappers the broad selector list also matches.
func findVariantGroups(doc *goquery.Document) []variantGroup {
	var groups []variantGroup

	doc.Find(variantGroupSelectors).Each(func(i int, s *goquery.Selection) {
		g := variantGroup{
			name:     inferGroupName(s),
			sel:      s,
			selected: -1,
		}

		s.Find(optionSelectors).Each(func(j int, opt *goquery.Selection) {
			g.options = append(g.options, opt)
		})
		if len(g.options) == 0 {
			return
		}

		for idx, opt := range g.options {
			if isSelectedOption(opt) {
				g.selected = idx
				break
			}
		}

		groups = append(groups, g)
	})

	return groups
}

// inferGroupName tries aria-label, then data-attribute-name, then the text of
// a preceding sibling — but only when that text is short and names a known
// attribute, so paragraphs of copy never become a group name.
func inferGroupName(group *goquery.Selection) string {
	if label := strings.TrimSpace(group.AttrOr("aria-label", "")); label != "" {
		if attrNameRe.MatchString(label) {
			return normalizeAttrName(attrNameRe.FindString(label))
		}
	}
	if name := strings.TrimSpace(group.AttrOr("data-attribute-name", "")); name != "" {
		return normalizeAttrName(name)
	}

	prev := group.Prev()
	if prev.Length() > 0 {
		text := strings.TrimSpace(prev.Text())
		if text != "" && len(text) <= 40 && attrNameRe.MatchString(text) {
			return normalizeAttrName(attrNameRe.FindString(text))
		}
	}

	return ""
}

// isSelectedOption runs the selected-element checks in their empirical order.
// The ordering is deliberate accumulation, not principle: each tier covers a
// real storefront convention the earlier tiers miss.
func isSelectedOption(opt *goquery.Selection) bool {
	// 1. Native checked state on radio inputs.
	if _, ok := opt.Attr("checked"); ok {
		return true
	}

	// 2. ARIA state attributes.
	if opt.AttrOr("aria-checked", "") == "true" || opt.AttrOr("aria-selected", "") == "true" {
		return true
	}
	if v, ok := opt.Attr("aria-current"); ok && v != "false" {
		return true
	}

	// 3. data-selected flag.
	if v, ok := opt.Attr("data-selected"); ok && v != "false" {
		return true
	}

	// 4. Class or id containing "selected".
	if selectedTokenRe.MatchString(opt.AttrOr("class", "")) || selectedTokenRe.MatchString(opt.AttrOr("id", "")) {
		return true
	}

	// 5. Any attribute whose name or value contains "selected".
	if node := opt.Get(0); node != nil {
		for _, a := range node.Attr {
			if selectedTokenRe.MatchString(a.Key) || selectedTokenRe.MatchString(a.Val) {
				return true
			}
		}
	}

	// 6. An ancestor marked selected (swatch wrapped in a highlighted cell).
	marked := false
	opt.Parents().EachWithBreak(func(i int, p *goquery.Selection) bool {
		if selectedTokenRe.MatchString(p.AttrOr("class", "")) || selectedTokenRe.MatchString(p.AttrOr("id", "")) {
			marked = true
			return false
		}
		return true
	})
	if marked {
		return true
	}

	// 7. A descendant carrying a selected-like class or attribute.
	opt.Find("*").EachWithBreak(func(i int, c *goquery.Selection) bool {
		if selectedTokenRe.MatchString(c.AttrOr("class", "")) {
			marked = true
			return false
		}
		if node := c.Get(0); node != nil {
			for _, a := range node.Attr {
				if selectedTokenRe.MatchString(a.Key) {
					marked = true
					return false
				}
			}
		}
		return true
	})
	if marked {
		return true
	}

	// 8. Screen-reader text like "Selected: Midnight Blue".
	descText := false
	opt.Find("*").EachWithBreak(func(i int, c *goquery.Selection) bool {
		text := strings.TrimSpace(c.Text())
		if text != "" && strings.HasPrefix(strings.ToLower(text), "selected") {
			descText = true
			return false
		}
		return true
	})
	if descText {
		return true
	}

	// 9. A conspicuously thick inline border or outline, the visual-only
	// swatch selection convention.
	if style, ok := opt.Attr("style"); ok {
		if maxBorderWidthPx(style) >= minSelectedBorderPx {
			return true
		}
	}

	return false
}

func maxBorderWidthPx(style string) float64 {
	max := 0.0
	for _, m := range borderWidthRe.FindAllStringSubmatch(style, -1) {
		if w, err := strconv.ParseFloat(m[1], 64); err == nil && w > max {
			max = w
		}
	}
	return max
}

// optionValue reads the human value off an option element: explicit value or
// data attributes first, then the label text.
func optionValue(opt *goquery.Selection) string {
	for _, attr := range []string{"data-value", "data-color", "data-size", "value", "aria-label"} {
		if v := strings.TrimSpace(opt.AttrOr(attr, "")); v != "" {
			return v
		}
	}
	return strings.TrimSpace(opt.Text())
}

package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// cssSelector builds a stable CSS path for the first element of the
// selection. An id short-circuits the walk; otherwise each segment is
// qualified with :nth-of-type so the path stays unambiguous.
func cssSelector(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return cssSelectorForNode(sel.Get(0))
}

func cssSelectorForNode(n *html.Node) string {
	var path []string

	for n != nil && n.Type == html.ElementNode {
		if id := nodeAttr(n, "id"); id != "" {
			path = append([]string{n.Data + "#" + id}, path...)
			break
		}

		nth := 1
		for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == n.Data {
				nth++
			}
		}
		path = append([]string{fmt.Sprintf("%s:nth-of-type(%d)", n.Data, nth)}, path...)
		n = n.Parent
	}

	return strings.Join(path, " > ")
}

func nodeAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// ownText returns the text directly inside an element, excluding descendant
// elements. The full-page price scan uses this so container elements do not
// swallow their children's prices.
func ownText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

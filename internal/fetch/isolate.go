package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Isolate returns the outer HTML of the first node matching selector. When
// the selector matches nothing, or the markup cannot be parsed or rendered
// back, the input is returned unchanged so the caller still normalizes the
// whole document.
func Isolate(markup, selector string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		return markup
	}
	html, err := goquery.OuterHtml(node)
	if err != nil {
		return markup
	}
	return html
}

// Package normalize reduces fetched markup to canonical comparable text.
//
// The output feeds the content fingerprint, so it must be stable: identical
// markup always yields identical text, and cosmetic markup edits (attribute
// order, inter-tag whitespace) must not alter it.
package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements that never contribute visible text.
var nonContentSelector = strings.Join([]string{
	"script",
	"style",
	"noscript",
	"template",
	"head",
	"meta",
	"link",
	"[hidden]",
	"[aria-hidden=true]",
}, ", ")

// Page chrome stripped before text extraction. Pages lacking these elements
// are left untouched.
var chromeSelector = strings.Join([]string{
	"header",
	"footer",
	"nav",
	"[role=navigation]",
	".breadcrumb",
	".breadcrumbs",
	".menu",
	"#menu",
}, ", ")

// Normalize converts raw markup into canonical text: one line per visible
// text fragment, inner whitespace collapsed, no blank lines. It is total over
// any input; a parse failure degrades to plain-text trimming.
func Normalize(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Text(markup)
	}
	doc.Find(nonContentSelector).Remove()
	doc.Find(chromeSelector).Remove()

	var fragments []string
	for _, root := range doc.Nodes {
		collectText(root, &fragments)
	}
	return strings.Join(fragments, "\n")
}

// Text normalizes already-extracted plain text, such as reader-service
// output: each line trimmed, blank lines dropped.
func Text(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}

func collectText(n *html.Node, out *[]string) {
	if n.Type == html.TextNode {
		if s := collapseSpace(n.Data); s != "" {
			*out = append(*out, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package htmltext turns upstream HTML fragments into display text.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text strips markup from an HTML fragment. Line breaks become newlines.
func Text(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(doc.Text())
}

// Title returns the <title> of an HTML page, or "" when there is none.
// Used to label maintenance pages in logs.
func Title(page []byte) string {
	if len(page) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

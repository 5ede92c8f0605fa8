package notices

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText converts HTML to plain text, collapsing whitespace. Find a
// Tender descriptions frequently carry markup; keyword matching wants the
// visible text only.
func HTMLToText(html string) string {
	if html == "" || !strings.Contains(html, "<") {
		return normalizeSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeSpace(html)
	}
	return normalizeSpace(doc.Text())
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

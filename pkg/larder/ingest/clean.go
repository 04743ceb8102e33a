package ingest

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/larder/pkg/larder/quantity"
)

// Clean prepares a raw ingredient line for splitting:
// markup and entities left over from pasted web recipes are removed,
// fraction glyphs are rewritten as "n/d", and whitespace is collapsed.
// The raw line itself is never modified.
func Clean(line string) string {
	if strings.ContainsAny(line, "<&") {
		line = stripHTML(line)
	}
	line = quantity.ReplaceGlyphs(line)
	return strings.Join(strings.Fields(line), " ")
}

// stripHTML extracts the text content of a fragment, unescaping entities.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return buf.String()
}

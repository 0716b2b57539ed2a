package linkcheck

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractTitle returns the text of the first <title> element in a (possibly
// truncated) HTML document, with whitespace collapsed and at most maxRunes runes.
// It returns "" when the document has no title.
func extractTitle(body []byte, maxRunes int) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	return truncateRunes(title, maxRunes)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

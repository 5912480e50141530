package recipe

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = []string{
	"p", "div", "h1", "h2", "h3", "h4", "h5", "h6",
	"li", "br", "hr", "section", "article", "header", "footer",
	"nav", "aside", "main", "blockquote", "pre", "ul", "ol",
}

var (
	spaceRunRe      = regexp.MustCompile(`[ \t]+`)
	spacedNewlineRe = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	newlineRunRe    = regexp.MustCompile(`\n{3,}`)
)

// extractRawText flattens a page into readable plain text for the manual
// correction fallback: scripts and styles are dropped, block-level elements
// contribute line breaks, and whitespace runs are collapsed.
func extractRawText(doc *goquery.Document) string {
	doc.Find("script, style").Remove()

	container := doc.Find("body")
	if container.Length() == 0 {
		container = doc.Find("html")
	}

	for _, tag := range blockElements {
		container.Find(tag).Each(func(_ int, s *goquery.Selection) {
			if tag == "br" {
				s.ReplaceWithHtml("\n")
			} else {
				s.AppendHtml("\n")
			}
		})
	}

	text := container.Text()
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = spacedNewlineRe.ReplaceAllString(text, "\n")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

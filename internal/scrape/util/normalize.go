package util

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// StripHTML reduces markup to its visible text, words joined by single
// spaces. Never fails: unparseable input degrades to whitespace cleanup
// of the raw string.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	doc.Find("script, style").Remove()

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return CleanText(sb.String())
}

var boardTokenRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidBoardToken gates identifiers before they are interpolated into
// vendor URLs. Only lowercase alphanumerics and hyphens pass.
func ValidBoardToken(token string) bool {
	return boardTokenRe.MatchString(token)
}

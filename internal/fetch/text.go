package fetch

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ExtractText parses HTML content and returns the page title and the
// visible text with whitespace collapsed to single spaces.
//
// Script, style, and noscript subtrees are dropped entirely: their text
// is code, not page content, and inline JavaScript is a rich source of
// false-positive "email" matches like selector strings.
//
// Design decision: We use golang.org/x/net/html rather than regex
// stripping because it correctly handles malformed HTML common on the
// web and cannot be confused by angle brackets inside attributes.
func ExtractText(content io.Reader) (title, text string, err error) {
	doc, err := html.Parse(content)
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return // skip whole subtree
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return title, strings.Join(strings.Fields(sb.String()), " "), nil
}

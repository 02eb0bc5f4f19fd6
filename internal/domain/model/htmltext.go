package model

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText extracts the visible text from the submission's HTML body,
// trimmed of surrounding whitespace. A body without markup comes back as
// is; script and style contents are dropped. The tokenizer never fails on
// malformed markup, so there is no error path here.
func (s Submission) PlainText() string {
	return strings.TrimSpace(extractText(s.Body))
}

func extractText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors; a string reader has none.
		return markup
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			// Block-level breaks keep construction-file lines apart.
			if n.Data == "br" || n.Data == "p" || n.Data == "div" {
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}

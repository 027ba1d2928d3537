// Package htmltext renders problem statement HTML as plain text.
package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockElements start and end on their own line.
var blockElements = map[string]bool{
	"p":          true,
	"div":        true,
	"pre":        true,
	"ul":         true,
	"ol":         true,
	"li":         true,
	"blockquote": true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"table":      true,
	"tr":         true,
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// ToText strips markup from input. Paragraph-level elements become line
// breaks, list items get a "- " bullet and superscripts are written as
// "^n" so that constraints such as 10<sup>4</sup> stay readable. Input
// that cannot be parsed is returned unchanged.
func ToText(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}

	var b strings.Builder
	extractText(node, &b)
	return tidy(b.String())
}

func extractText(node *html.Node, b *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(node.Data)
	case html.ElementNode:
		switch {
		case node.Data == "br":
			b.WriteByte('\n')
		case node.Data == "sup":
			b.WriteByte('^')
		case node.Data == "li":
			b.WriteString("\n- ")
		case blockElements[node.Data]:
			b.WriteByte('\n')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, b)
	}

	if node.Type == html.ElementNode && blockElements[node.Data] && node.Data != "li" {
		b.WriteByte('\n')
	}
}

// tidy normalizes whitespace line by line and limits blank runs to one
// empty line.
func tidy(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed.
func PlainText(htmlStr string) string {
	if htmlStr == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return strings.Join(strings.Fields(htmlStr), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt renders markdown to plain text and cuts it to at most n runes,
// adding an ellipsis when shortened.
func Excerpt(markdown string, n int) string {
	text := []rune(PlainText(RenderMarkdown(markdown)))
	if len(text) <= n {
		return string(text)
	}
	return strings.TrimSpace(string(text[:n])) + "…"
}

package ingestion

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markupTag  = regexp.MustCompile(`(?i)</?[a-z][a-z0-9]*(?:\s[^<>]*)?/?>|<!--[\s\S]*?-->|<!doctype[^>]*>`)
	lineBreak  = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockClose = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|tr|ul|ol|section|article|header|footer|table)\s*>`)
	listOpen   = regexp.MustCompile(`(?i)<li(?:\s[^<>]*)?>`)
)

// stripHTML converts markup to text. Documents with tags go through a DOM
// parse so block elements become line breaks and list items become "- "
// bullets; script and style content is dropped. Entities are decoded either way.
func stripHTML(content string) string {
	if !markupTag.MatchString(content) {
		return decodeEntities(content)
	}

	text, err := htmlToText(content)
	if err != nil {
		return decodeEntities(markupTag.ReplaceAllString(content, " "))
	}
	return text
}

func htmlToText(content string) (string, error) {
	content = lineBreak.ReplaceAllString(content, "\n")
	content = listOpen.ReplaceAllString(content, "\n- ")
	content = blockClose.ReplaceAllString(content, "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, svg, template").Remove()

	return doc.Text(), nil
}

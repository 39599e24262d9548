package htmltext

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ToText renders an HTML fragment as plain text: tags are dropped,
// entities decoded and runs of whitespace collapsed to single spaces.
func ToText(fragment string) string {
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(fragment)
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, div, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return collapse(doc.Text())
}

// Excerpt cuts s to at most limit runes, ending with "..." when shortened.
// It never splits a UTF-8 sequence.
func Excerpt(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= 3 {
		return string([]rune(s)[:limit])
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit-3]), " ") + "..."
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

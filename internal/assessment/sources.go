package assessment

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxSourceLength caps each source sent to the generator, in bytes
const maxSourceLength = 4000

// CleanSources reduces HTML sources to their visible text, collapses whitespace
// and truncates each one. Empty sources are dropped.
func CleanSources(sources []string) []string {
	out := make([]string, 0, len(sources))
	for _, src := range sources {
		text := strings.TrimSpace(src)
		if looksLikeHTML(text) {
			text = htmlText(text)
		}
		text = strings.Join(strings.Fields(text), " ")
		if text == "" {
			continue
		}
		out = append(out, truncate(text, maxSourceLength))
	}
	return out
}

func looksLikeHTML(s string) bool {
	return strings.HasPrefix(s, "<") && strings.Contains(s, ">")
}

func htmlText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style, noscript, nav, footer").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text()
	}
	return body.Text()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

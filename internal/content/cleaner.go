package content

import (
	"html"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Clean turns a raw title into display text. Entities are decoded, tags are
// removed and whitespace runs collapse to single spaces. Passes repeat until
// the text stops changing, so nested input such as "&amp;lt;b&amp;gt;" is
// fully unwrapped.
func Clean(raw string) string {
	out := raw
	for {
		next := cleanOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func cleanOnce(s string) string {
	s = html.UnescapeString(s)
	s = tagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

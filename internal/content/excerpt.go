package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultExcerptLength is the excerpt bound used when none is configured.
const DefaultExcerptLength = 150

const (
	minParagraphLength = 50
	fallbackWords      = 20
	ellipsis           = "..."
)

var (
	markdownMarkers = regexp.MustCompile("[#*_`\\[\\]()!]")
	newlineRuns     = regexp.MustCompile(`\n+`)
)

// Extract returns a plain-text teaser of at most maxLength characters.
// The first sentence longer than 50 characters wins; content without one
// falls back to its first 20 words followed by an ellipsis.
func Extract(raw string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}

	text := tagPattern.ReplaceAllString(raw, "")
	text = markdownMarkers.ReplaceAllString(text, "")
	text = newlineRuns.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	for _, part := range strings.Split(text, ".") {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) <= minParagraphLength {
			continue
		}
		return truncate(part+".", maxLength)
	}

	words := strings.Fields(text)
	if len(words) > fallbackWords {
		words = words[:fallbackWords]
	}
	return truncate(strings.Join(words, " ")+ellipsis, maxLength)
}

func truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	keep := maxLength - len(ellipsis)
	if keep < 0 {
		return string(runes[:maxLength])
	}
	return string(runes[:keep]) + ellipsis
}

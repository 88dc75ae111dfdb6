package content

import (
	"regexp"
	"strings"
	"unicode"
)

// FallbackSlug is returned when a title has no usable keywords.
const FallbackSlug = "article"

// MaxSlugWords caps the number of keywords kept in a slug.
const MaxSlugWords = 5

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "how": {}, "your": {},
}

var hyphenRuns = regexp.MustCompile(`-+`)

// GenerateSlug derives a keyword slug from a title. Distinct titles may
// produce the same slug; callers resolve collisions.
func GenerateSlug(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	keywords := make([]string, 0, MaxSlugWords)
	for _, word := range strings.Fields(b.String()) {
		if _, stop := stopWords[word]; stop || len(word) <= 2 {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == MaxSlugWords {
			break
		}
	}

	slug := hyphenRuns.ReplaceAllString(strings.Join(keywords, "-"), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return FallbackSlug
	}
	return slug
}

package content

import (
	"bytes"
	"errors"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are neither .md nor .html.
	ErrUnsupportedFormat = errors.New("content: file must be a markdown (.md) or HTML (.html) file")
	// ErrInvalidEncoding is returned for uploads that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("content: file is not valid UTF-8 text")
)

var (
	markdownHeading = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	utf8BOM         = []byte("\xef\xbb\xbf")
)

// FrontMatter is the optional YAML header of an uploaded Markdown file.
// Unset fields leave the corresponding form value in charge.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
	Featured    *bool  `yaml:"featured"`
	Published   *bool  `yaml:"published"`
}

// Upload is a decoded article file.
type Upload struct {
	Title  string
	Source Source
	Meta   FrontMatter
}

// ParseUpload decodes an uploaded article file. The extension picks the
// format; the title comes from the document, falling back to the file name.
func ParseUpload(filename string, data []byte) (*Upload, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	if ext != ".md" && ext != ".html" {
		return nil, ErrUnsupportedFormat
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	text := string(data)
	fallback := titleFromFilename(name)

	if ext == ".html" {
		title := htmlTitle(text)
		if title == "" {
			title = fallback
		}
		return &Upload{Title: Clean(title), Source: HTMLSource(text)}, nil
	}

	meta, body := splitFrontMatter(text)
	title := meta.Title
	if title == "" {
		if m := markdownHeading.FindStringSubmatch(body); m != nil {
			title = m[1]
		}
	}
	if Clean(title) == "" {
		title = fallback
	}
	return &Upload{Title: Clean(title), Source: MarkdownSource(body), Meta: meta}, nil
}

func htmlTitle(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1"} {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// splitFrontMatter strips a leading "---" YAML block. Input without a
// well-formed mapping block is returned unchanged.
func splitFrontMatter(text string) (FrontMatter, string) {
	norm := strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(norm, "---\n") {
		return FrontMatter{}, text
	}
	rest := norm[len("---\n"):]

	var head, body string
	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		head, body = rest[:i], rest[i+len("\n---\n"):]
	} else if strings.HasSuffix(rest, "\n---") {
		head = strings.TrimSuffix(rest, "\n---")
	} else {
		return FrontMatter{}, text
	}

	var meta FrontMatter
	var probe map[string]interface{}
	if err := yaml.Unmarshal([]byte(head), &probe); err != nil || probe == nil {
		return FrontMatter{}, text
	}
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return FrontMatter{}, text
	}
	return meta, strings.TrimLeft(body, "\n")
}

// titleFromFilename turns "pg_guide_bangalore.md" into "Pg Guide Bangalore".
func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	base = strings.ReplaceAll(base, "_", " ")

	var b strings.Builder
	prevLetter := false
	for _, r := range base {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

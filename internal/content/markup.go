package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRenderFailed is returned when Markdown cannot be converted.
var ErrRenderFailed = errors.New("content: markdown render failed")

// Rendered is the HTML body of an article and the first image it embeds.
// FeaturedImage is empty when the body has no image.
type Rendered struct {
	HTML          string
	FeaturedImage string
}

// Converter turns article sources into HTML. A Converter is safe for
// concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a converter for GitHub-flavoured Markdown with tables,
// fenced code, footnotes and definition lists. Raw HTML in Markdown is kept.
func NewConverter() *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Converter{md: md}
}

// Render converts src to HTML. HTML sources pass through byte for byte.
func (c *Converter) Render(src Source) (out Rendered, err error) {
	if src.IsHTML() {
		return Rendered{HTML: src.Text, FeaturedImage: FirstImage(src.Text)}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out = Rendered{}
			err = fmt.Errorf("%w: %v", ErrRenderFailed, r)
		}
	}()

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src.Text), &buf); err != nil {
		return Rendered{}, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	body := buf.String()
	return Rendered{HTML: body, FeaturedImage: FirstImage(body)}, nil
}

// FirstImage returns the src of the first <img> with a non-empty src
// attribute, or "" if there is none.
func FirstImage(body string) string {
	if !strings.Contains(strings.ToLower(body), "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v := strings.TrimSpace(s.AttrOr("src", "")); v != "" {
			src = v
			return false
		}
		return true
	})
	return src
}

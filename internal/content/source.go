package content

// Format identifies how article source text is authored.
type Format int

const (
	FormatMarkdown Format = iota
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	default:
		return "markdown"
	}
}

// Source is raw article text tagged with its format. The format is fixed
// once at ingestion; downstream code switches on it instead of re-sniffing.
type Source struct {
	Format Format
	Text   string
}

// MarkdownSource wraps Markdown text.
func MarkdownSource(text string) Source {
	return Source{Format: FormatMarkdown, Text: text}
}

// HTMLSource wraps HTML that is served verbatim.
func HTMLSource(text string) Source {
	return Source{Format: FormatHTML, Text: text}
}

// IsHTML reports whether the source is stored without conversion.
func (s Source) IsHTML() bool {
	return s.Format == FormatHTML
}

// StatsText is the text that excerpt, word count and read time derive from.
// For both formats that is the text the author supplied.
func (s Source) StatsText() string {
	return s.Text
}

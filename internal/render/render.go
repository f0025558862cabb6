// Package render formats a computed sitemap for people: an indented tree,
// JSON, a Mermaid flowchart, a Markdown outline and HTML.
package render

import (
	"fmt"
	"io"
	"strings"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// Supported formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMermaid  = "mermaid"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists the supported formats in help order.
var Formats = []string{FormatText, FormatJSON, FormatMermaid, FormatMarkdown, FormatHTML}

// Formatter writes a page hierarchy to w.
type Formatter interface {
	Format(w io.Writer, hierarchy []*sitemap.Page) error
}

// NewFormatter returns the formatter for format.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatMermaid:
		return &MermaidFormatter{}, nil
	case FormatMarkdown, "md":
		return &MarkdownFormatter{}, nil
	case FormatHTML:
		return &HTMLFormatter{}, nil
	default:
		return nil, serrors.ValidationFailed("format",
			fmt.Sprintf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", ")))
	}
}

// Title returns the page's title field, or its id when it has none.
func Title(p *sitemap.Page) string {
	if t, ok := p.Fields["title"].(string); ok && t != "" {
		return t
	}
	return p.ID
}

func countPages(hierarchy []*sitemap.Page) (pages, blocks int) {
	sitemap.Walk(hierarchy, func(p *sitemap.Page, _ int) bool {
		pages++
		blocks += len(p.Blocks)
		return true
	})
	return pages, blocks
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

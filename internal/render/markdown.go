package render

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// MarkdownFormatter prints the hierarchy as a nested Markdown list of links.
type MarkdownFormatter struct {
	// Heading is written as a level one heading when set.
	Heading string
}

var markdownLabelEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)

// Format outputs the hierarchy as Markdown.
func (f *MarkdownFormatter) Format(w io.Writer, hierarchy []*sitemap.Page) error {
	_, err := io.WriteString(w, f.markdown(hierarchy))
	return err
}

func (f *MarkdownFormatter) markdown(hierarchy []*sitemap.Page) string {
	var b strings.Builder
	if f.Heading != "" {
		fmt.Fprintf(&b, "# %s\n\n", f.Heading)
	}
	sitemap.Walk(hierarchy, func(p *sitemap.Page, depth int) bool {
		fmt.Fprintf(&b, "%s- [%s](<%s>)", strings.Repeat("  ", depth), markdownLabelEscaper.Replace(Title(p)), p.Path)
		if p.Hidden {
			b.WriteString(" _(hidden)_")
		}
		b.WriteString("\n")
		return true
	})
	return b.String()
}

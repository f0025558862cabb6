package render

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// TextFormatter prints an indented tree with blocks and navigation links.
type TextFormatter struct{}

// Format outputs the hierarchy as human-readable text.
func (f *TextFormatter) Format(w io.Writer, hierarchy []*sitemap.Page) error {
	var err error
	sitemap.Walk(hierarchy, func(p *sitemap.Page, depth int) bool {
		if err != nil {
			return false
		}
		err = f.formatPage(w, p, depth)
		return err == nil
	})
	if err != nil {
		return err
	}

	pages, blocks := countPages(hierarchy)
	_, err = fmt.Fprintf(w, "\n%d page%s, %d block%s\n", pages, pluralize(pages), blocks, pluralize(blocks))
	return err
}

func (f *TextFormatter) formatPage(w io.Writer, p *sitemap.Page, depth int) error {
	indent := strings.Repeat("  ", depth)

	line := fmt.Sprintf("%s%s  %s", indent, p.Path, p.ID)
	if p.Hidden {
		line += " (hidden)"
	}
	if p.Previous != nil || p.Next != nil {
		line += fmt.Sprintf("  [prev: %s, next: %s]", refID(p.Previous), refID(p.Next))
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for _, b := range p.Blocks {
		if _, err := fmt.Fprintf(w, "%s    · %s (%s)\n", indent, b.ID, b.Type); err != nil {
			return err
		}
	}
	return nil
}

func refID(ref *sitemap.NavRef) string {
	if ref == nil {
		return "-"
	}
	return ref.ID
}

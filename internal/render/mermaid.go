package render

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// MermaidFormatter prints a Mermaid flowchart of the hierarchy. Hidden pages
// are drawn dashed.
type MermaidFormatter struct{}

var mermaidLabelEscaper = strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;")

// Format outputs the hierarchy as a Mermaid flowchart.
func (f *MermaidFormatter) Format(w io.Writer, hierarchy []*sitemap.Page) error {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	ids := make(map[*sitemap.Page]string)
	var hidden []string
	var edges []string

	var visit func(p *sitemap.Page, parent string)
	visit = func(p *sitemap.Page, parent string) {
		id := fmt.Sprintf("p%d", len(ids))
		ids[p] = id
		label := mermaidLabelEscaper.Replace(Title(p)) + "<br/>" + mermaidLabelEscaper.Replace(p.Path)
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", id, label)
		if p.Hidden {
			hidden = append(hidden, id)
		}
		if parent != "" {
			edges = append(edges, fmt.Sprintf("  %s --> %s\n", parent, id))
		}
		for _, c := range p.Children {
			visit(c, id)
		}
	}
	for _, p := range hierarchy {
		visit(p, "")
	}

	for _, e := range edges {
		b.WriteString(e)
	}
	if len(hidden) > 0 {
		b.WriteString("  classDef hidden stroke-dasharray: 5 5\n")
		fmt.Fprintf(&b, "  class %s hidden\n", strings.Join(hidden, ","))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

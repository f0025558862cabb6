package render

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

const htmlTitle = "Sitemap"

// HTMLFormatter renders the Markdown outline to a standalone HTML page.
type HTMLFormatter struct{}

// Format outputs the hierarchy as an HTML document.
func (f *HTMLFormatter) Format(w io.Writer, hierarchy []*sitemap.Page) error {
	md := (&MarkdownFormatter{Heading: htmlTitle}).markdown(hierarchy)

	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(md), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(htmlTitle), body.String())
	return err
}

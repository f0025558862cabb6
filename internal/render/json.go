package render

import (
	"encoding/json"
	"io"

	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// JSONFormatter prints the hierarchy as indented JSON.
type JSONFormatter struct{}

// Format outputs the hierarchy as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, hierarchy []*sitemap.Page) error {
	if hierarchy == nil {
		hierarchy = []*sitemap.Page{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(hierarchy)
}

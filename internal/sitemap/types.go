package sitemap

// DefaultBlockType is the block type used when neither a page nor any of its
// ancestors declares one.
const DefaultBlockType = "default"

// RawPage is a page as declared in the raw sitemap or provided by a page template.
type RawPage struct {
	ID               string         `yaml:"id"`
	Path             string         `yaml:"path,omitempty"`
	Template         string         `yaml:"template,omitempty"`
	Variables        map[string]any `yaml:"variables,omitempty"`
	Hidden           *bool          `yaml:"is_hidden,omitempty"`
	DefaultBlockType string         `yaml:"defaultBlockType,omitempty"`
	Children         []RawPage      `yaml:"children,omitempty"`
	Blocks           []RawBlock     `yaml:"blocks,omitempty"`

	// Fields collects every other key (title, component, query, ...).
	Fields map[string]any `yaml:",inline"`
}

// RawBlock is a block as declared on a page or provided by a block template.
type RawBlock struct {
	ID        string         `yaml:"id"`
	Type      string         `yaml:"type,omitempty"`
	Template  string         `yaml:"template,omitempty"`
	Variables map[string]any `yaml:"variables,omitempty"`

	Fields map[string]any `yaml:",inline"`
}

// Page is a materialized node of the site hierarchy.
type Page struct {
	ID               string         `yaml:"id" json:"id"`
	Path             string         `yaml:"path" json:"path"`
	Template         string         `yaml:"template,omitempty" json:"template,omitempty"`
	Variables        map[string]any `yaml:"variables,omitempty" json:"variables,omitempty"`
	Hidden           bool           `yaml:"is_hidden" json:"is_hidden"`
	DefaultBlockType string         `yaml:"defaultBlockType" json:"defaultBlockType"`
	Fields           map[string]any `yaml:",inline" json:"fields,omitempty"`
	Blocks           []Block        `yaml:"blocks,omitempty" json:"blocks,omitempty"`
	Children         []*Page        `yaml:"children" json:"children"`
	Previous         *NavRef        `yaml:"previous,omitempty" json:"previous,omitempty"`
	Next             *NavRef        `yaml:"next,omitempty" json:"next,omitempty"`
}

// Block is a materialized content unit owned by a page.
type Block struct {
	ID        string         `yaml:"id" json:"id"`
	Type      string         `yaml:"type" json:"type"`
	Path      string         `yaml:"path" json:"path"`
	Template  string         `yaml:"template,omitempty" json:"template,omitempty"`
	Variables map[string]any `yaml:"variables,omitempty" json:"variables,omitempty"`
	Fields    map[string]any `yaml:",inline" json:"fields,omitempty"`
}

// NavRef is the minimal reference used for previous/next links. It never
// carries children, blocks or links of its own, so the tree stays acyclic.
type NavRef struct {
	ID   string `yaml:"id" json:"id"`
	Path string `yaml:"path" json:"path"`
}

// Ref reduces p to a NavRef.
func (p *Page) Ref() *NavRef {
	return &NavRef{ID: p.ID, Path: p.Path}
}

// Stack accumulates pages during a single build pass.
type Stack struct {
	// Hierarchy holds the root pages in declaration order.
	Hierarchy []*Page
	// Flat holds every page in pre-order.
	Flat []*Page
}

// BlockCount returns the number of blocks over all pages.
func (s *Stack) BlockCount() int {
	n := 0
	for _, p := range s.Flat {
		n += len(p.Blocks)
	}
	return n
}

// Walk visits every page of the hierarchy in pre-order with its depth.
// Returning false from fn skips the page's children.
func Walk(pages []*Page, fn func(p *Page, depth int) bool) {
	var visit func(p *Page, depth int)
	visit = func(p *Page, depth int) {
		if !fn(p, depth) {
			return
		}
		for _, c := range p.Children {
			visit(c, depth+1)
		}
	}
	for _, p := range pages {
		visit(p, 0)
	}
}

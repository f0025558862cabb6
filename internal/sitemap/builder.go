package sitemap

import (
	"log/slog"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// Keys that are computed during materialization and therefore ignored when
// they arrive as free-form fields.
var (
	computedPageKeys  = []string{"previous", "next"}
	computedBlockKeys = []string{"path"}
)

// Builder materializes raw page configurations into pages.
type Builder struct {
	pages  TemplateSource
	blocks TemplateSource
}

// NewBuilder returns a Builder resolving page templates from pages and block
// templates from blocks. Either source may be nil.
func NewBuilder(pages, blocks TemplateSource) *Builder {
	return &Builder{pages: pages, blocks: blocks}
}

// Materialize resolves raw under parent, registers the resulting page on
// stack and recurses into its children in declaration order. A page is added
// to stack.Flat before any of its descendants; pages without a parent are
// also added to stack.Hierarchy.
func (b *Builder) Materialize(stack *Stack, raw RawPage, parent *Page) (*Page, error) {
	resolved, err := resolvePage(raw, b.pages, parent)
	if err != nil {
		return nil, err
	}

	page := &Page{
		ID:        resolved.ID,
		Path:      pagePath(resolved.Path, resolved.ID, parent),
		Template:  resolved.Template,
		Variables: resolved.Variables,
		Hidden:    resolved.Hidden != nil && *resolved.Hidden,
		Fields:    withoutKeys(resolved.Fields, computedPageKeys),
		Children:  []*Page{},
	}

	switch {
	case resolved.DefaultBlockType != "":
		page.DefaultBlockType = resolved.DefaultBlockType
	case parent != nil:
		page.DefaultBlockType = parent.DefaultBlockType
	default:
		page.DefaultBlockType = DefaultBlockType
	}

	if len(resolved.Blocks) > 0 {
		page.Blocks = make([]Block, 0, len(resolved.Blocks))
		for _, rb := range resolved.Blocks {
			block, err := b.block(rb, page)
			if err != nil {
				return nil, err
			}
			page.Blocks = append(page.Blocks, block)
		}
	}

	if parent == nil {
		stack.Hierarchy = append(stack.Hierarchy, page)
	}
	stack.Flat = append(stack.Flat, page)

	slog.Debug("Materialized page",
		logfields.PageID(page.ID),
		logfields.Path(page.Path),
		logfields.Template(page.Template),
		logfields.Blocks(len(page.Blocks)))

	for _, rc := range resolved.Children {
		child, err := b.Materialize(stack, rc, page)
		if err != nil {
			return nil, err
		}
		page.Children = append(page.Children, child)
	}

	return page, nil
}

func (b *Builder) block(raw RawBlock, page *Page) (Block, error) {
	resolved, err := resolveBlock(raw, b.blocks, page)
	if err != nil {
		return Block{}, err
	}

	typ := resolved.Type
	if typ == "" {
		typ = page.DefaultBlockType
	}

	return Block{
		ID:        resolved.ID,
		Type:      typ,
		Path:      blockPath(page, resolved.ID),
		Template:  resolved.Template,
		Variables: resolved.Variables,
		Fields:    withoutKeys(resolved.Fields, computedBlockKeys),
	}, nil
}

func withoutKeys(fields map[string]any, keys []string) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

package sitemap

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// Generator computes a sequenced sitemap and memoizes it in a caller-owned cache.
type Generator struct {
	builder *Builder
	cache   *Cache
}

// NewGenerator returns a Generator. A nil cache gets a private one.
func NewGenerator(builder *Builder, cache *Cache) *Generator {
	if cache == nil {
		cache = &Cache{}
	}
	return &Generator{builder: builder, cache: cache}
}

// Compute materializes every root of raw in order and sequences the flat list.
// After the first success the cached stack is returned whatever raw holds.
func (g *Generator) Compute(ctx context.Context, raw []RawPage) (*Stack, error) {
	return g.cache.Get(func() (*Stack, error) {
		stack := &Stack{}
		for _, root := range raw {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if _, err := g.builder.Materialize(stack, root, nil); err != nil {
				return nil, err
			}
		}
		Sequence(stack.Flat)

		slog.DebugContext(ctx, "Computed sitemap",
			logfields.Roots(len(stack.Hierarchy)),
			logfields.Pages(len(stack.Flat)),
			logfields.Blocks(stack.BlockCount()))
		return stack, nil
	})
}

// Compute builds a sitemap without memoization.
func Compute(ctx context.Context, raw []RawPage, pages, blocks TemplateSource) (*Stack, error) {
	return NewGenerator(NewBuilder(pages, blocks), nil).Compute(ctx, raw)
}

package commands

import (
	"fmt"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
	"git.home.luguber.info/inful/sitemapper/internal/source"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Strict bool `help:"Treat warnings as errors"`
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	src, err := source.Load(cfg)
	if err != nil {
		return err
	}
	stack, err := sitemap.Compute(ctx, src.Pages, src.PageTemplates, src.BlockTemplates)
	if err != nil {
		return err
	}
	issues := sitemap.Check(stack, src.PageTemplates, src.BlockTemplates)

	out := g.out()
	if _, err := fmt.Fprintf(out, "%s: %d roots, %d pages, %d blocks\n",
		src.SitemapFile.Path, len(stack.Hierarchy), len(stack.Flat), stack.BlockCount()); err != nil {
		return err
	}
	for _, issue := range issues {
		if _, err := fmt.Fprintf(out, "warning: %s\n", issue); err != nil {
			return err
		}
	}

	if len(issues) == 0 {
		_, err = fmt.Fprintln(out, "Sitemap is valid")
		return err
	}
	if v.Strict {
		return serrors.ValidationFailed("sitemap", fmt.Sprintf("%d warning%s", len(issues), pluralize(len(issues))))
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/sitemapper/internal/artifact"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/render"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
	"git.home.luguber.info/inful/sitemapper/internal/source"
	"git.home.luguber.info/inful/sitemapper/internal/storage"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Format       string `short:"f" help:"Output format (text, json, mermaid, markdown, html)" enum:"text,json,mermaid,markdown,html" default:"text"`
	Output       string `short:"o" help:"Write to this file instead of stdout"`
	FromArtifact bool   `name:"from-artifact" help:"Read the generated artifact instead of computing from sources" xor:"source"`
	Build        string `help:"Show the artifact snapshot of this build (ID or unique prefix)" xor:"source"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	formatter, err := render.NewFormatter(s.Format)
	if err != nil {
		return err
	}

	var hierarchy []*sitemap.Page
	switch {
	case s.Build != "":
		pages, err := s.fromSnapshot(cfg.Resolve(cfg.History.SnapshotDir))
		if err != nil {
			return err
		}
		hierarchy = pages
	case s.FromArtifact:
		path := cfg.Resolve(cfg.Output.Sitemap)
		pages, generatedAt, err := artifact.Read(path)
		if err != nil {
			return err
		}
		slog.Debug("Read artifact", logfields.Path(path), slog.Time("generated_at", generatedAt))
		hierarchy = pages
	default:
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
		hierarchy = stack.Hierarchy
	}

	if s.Output == "" {
		return formatter.Format(g.out(), hierarchy)
	}

	f, err := os.Create(s.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Output, err)
	}
	if err := formatter.Format(f, hierarchy); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *ShowCmd) fromSnapshot(dir string) ([]*sitemap.Page, error) {
	store, err := storage.NewFSStore(dir)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	hash, err := store.ForBuild(ctx, s.Build)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", s.Build, err)
	}
	data, err := store.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	return artifact.Parse(data)
}

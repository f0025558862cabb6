package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output        string `short:"o" help:"Write the artifact here instead of output.sitemap"`
	SkipUnchanged bool   `name:"skip-unchanged" help:"Skip the build when sources match the last manifest"`
	DryRun        bool   `name:"dry-run" help:"Print the artifact instead of writing it"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rt := newRuntime(cfg)
	defer rt.Close()

	result, err := rt.service.Run(ctx, build.BuildRequest{
		Config:  cfg,
		Trigger: build.TriggerCLI,
		Options: build.BuildOptions{
			OutputPath:      b.Output,
			DryRun:          b.DryRun,
			SkipIfUnchanged: b.SkipUnchanged || cfg.Output.SkipUnchanged,
		},
	})
	rt.flushMetrics()
	if err != nil {
		return err
	}

	out := g.out()
	switch {
	case result.Skipped:
		_, err = fmt.Fprintf(out, "Skipped: %s (%s)\n", result.SkipReason, result.ArtifactPath)
	case b.DryRun:
		_, err = out.Write(result.Content)
	default:
		m := result.Manifest
		_, err = fmt.Fprintf(out, "Generated %s (%d pages, %d blocks) in %s\n",
			result.ArtifactPath, m.Outputs.Pages, m.Outputs.Blocks, result.Duration.Round(time.Millisecond))
	}
	if err != nil {
		return err
	}

	if n := len(result.Warnings); n > 0 {
		_, err = fmt.Fprintf(out, "%d warning%s, see log\n", n, pluralize(n))
	}
	return err
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

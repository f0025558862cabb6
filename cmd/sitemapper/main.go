package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemapper/cmd/sitemapper/commands"
	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("sitemapper"),
		kong.Description("Generate a site map from a raw page tree and page/block templates."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, &cli)
	serrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}

package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitemapper/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	written, err := config.Init(root.Config, i.Force)
	if err != nil {
		return err
	}
	out := g.out()
	for _, path := range written {
		if _, err := fmt.Fprintf(out, "wrote %s\n", path); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(out, "initialized successfully")
	return err
}

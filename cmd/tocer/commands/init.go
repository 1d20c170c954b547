package commands

import (
	"fmt"

	"git.home.luguber.info/inful/tocer/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force   bool   `help:"Overwrite an existing configuration file"`
	TocFile string `name:"toc-file" help:"Root document recorded in the configuration (default: README.md)"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path, _ := config.Locate(root.Config, i.TocFile)
	out := g.out()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.TocFile, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}

package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/tocer/cmd/tocer/commands"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tocer"),
		kong.Description("Keep a tree of Markdown documents in step with the table of contents of a root document."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}

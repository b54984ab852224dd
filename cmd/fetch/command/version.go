package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Version is set at build time with -ldflags "-X equityprices/cmd/fetch/command.Version=...".
var Version = "v1.0.0"

type ShowVersion struct{}

func (c ShowVersion) Command() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "print the version",
		Action: func(ctx *cli.Context) error {
			_, err := fmt.Fprintln(ctx.App.Writer, Version)
			return err
		},
	}
}

package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"equityprices/cmd/fetch/command"
)

func main() {
	app := &cli.App{
		Name:     "fetch",
		Usage:    "one-shot equity quote and universe lookups",
		Commands: []*cli.Command{},
	}

	for _, cmd := range command.Commands {
		app.Commands = append(app.Commands, cmd.Command())
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

package command

import (
	"github.com/urfave/cli/v2"

	"equityprices/internal/universe"
)

type ShowUniverse struct{}

func (u ShowUniverse) Command() *cli.Command {
	return &cli.Command{
		Name:    "universe",
		Aliases: []string{"u"},
		Usage:   "print the configured symbol universe",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:  "path",
				Usage: "universe resource, overrides config",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write JSON to this file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			path := cfg.Universe.Path
			if p := c.String("path"); p != "" {
				path = p
			}

			symbols, err := universe.NewLoader(path).Symbols(c.Context)
			if err != nil {
				return err
			}
			return output(c.App.Writer, c.String("out"), map[string][]string{"symbols": symbols})
		},
	}
}

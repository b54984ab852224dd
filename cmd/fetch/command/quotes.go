package command

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"equityprices/internal/config"
	"equityprices/internal/provider"
	"equityprices/internal/providers"
	"equityprices/internal/quotes"
	"equityprices/internal/universe"
)

type FetchQuotes struct {
	// Registry replaces the config-built registry when set.
	Registry *provider.Registry
}

type quotesOutput struct {
	Provider string                   `json:"provider"`
	Symbols  []string                 `json:"symbols"`
	Data     map[string]quotes.Result `json:"data"`
}

func (f FetchQuotes) Command() *cli.Command {
	return &cli.Command{
		Name:    "quotes",
		Aliases: []string{"q"},
		Usage:   "fetch quotes once and print the JSON result",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "symbols",
				Aliases: []string{"s"},
				Usage:   "comma-separated ticker symbols",
				EnvVars: []string{"SYMBOLS"},
			},
			&cli.BoolFlag{
				Name:  "universe",
				Usage: "fetch every symbol of the configured universe",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "provider id, defaults to quotes.default_provider",
			},
			&cli.IntFlag{
				Name:    "chunk-size",
				Aliases: []string{"n"},
				Usage:   "symbols per provider call, defaults to quotes.default_chunk_size",
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

			symbols := config.SplitCSV(c.String("symbols"))
			if c.Bool("universe") {
				all, err := universe.NewLoader(cfg.Universe.Path).Symbols(c.Context)
				if err != nil {
					return err
				}
				symbols = append(symbols, all...)
			}
			if len(symbols) == 0 {
				return errors.New("no symbols provided")
			}

			chunkSize := cfg.Quotes.DefaultChunkSize
			if c.IsSet("chunk-size") {
				chunkSize = c.Int("chunk-size")
			}

			reg := f.Registry
			if reg == nil {
				reg = providers.FromConfig(cfg)
			}
			svc := quotes.NewService(reg, quotes.WithDefaultProvider(cfg.Quotes.DefaultProvider))
			providerID := c.String("provider")
			if providerID == "" {
				providerID = svc.DefaultProvider()
			}

			ctx := c.Context
			if cfg.Server.RequestTimeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
				defer cancel()
			}

			start := time.Now()
			data, err := svc.Fetch(ctx, symbols, providerID, chunkSize)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range data {
				if !r.OK() {
					failed++
				}
			}
			zap.L().Info("quotes fetched",
				zap.String("provider", providerID),
				zap.Int("symbols", len(data)),
				zap.Int("failed", failed),
				zap.Duration("took", time.Since(start)))

			return output(c.App.Writer, c.String("out"), quotesOutput{
				Provider: providerID,
				Symbols:  symbols,
				Data:     data,
			})
		},
	}
}

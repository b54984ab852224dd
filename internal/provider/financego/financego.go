package financego

import (
	"context"
	"fmt"
	"strings"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"

	"equityprices/internal/provider"
)

// ListFunc performs one aggregate equity lookup.
type ListFunc func(symbols []string) ([]finance.Equity, error)

// Config controls the finance-go backed provider.
type Config struct {
	Name string // display name, default: financego
	// List overrides the finance-go lookup; nil uses equity.List.
	List ListFunc
}

// Provider resolves quotes through github.com/piquette/finance-go.
// finance-go zero-fills fields Yahoo omitted, so zero values are
// reported as absent.
type Provider struct {
	cfg Config
}

func New(cfg Config) *Provider {
	if cfg.Name == "" {
		cfg.Name = "financego"
	}
	if cfg.List == nil {
		cfg.List = listEquities
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string { return p.cfg.Name }

// Fetch runs a single equity.List call for all symbols. finance-go has no
// context support, so ctx is only checked before the call.
func (p *Provider) Fetch(ctx context.Context, symbols []string) (provider.Records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eqs, err := p.cfg.List(symbols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.cfg.Name, err)
	}
	bySymbol := make(map[string]finance.Equity, len(eqs))
	byUpper := make(map[string]finance.Equity, len(eqs))
	for _, e := range eqs {
		if e.Symbol == "" {
			continue
		}
		bySymbol[e.Symbol] = e
		byUpper[strings.ToUpper(e.Symbol)] = e
	}

	out := make(provider.Records, len(symbols))
	for _, s := range symbols {
		e, ok := bySymbol[s]
		if !ok {
			e, ok = byUpper[strings.ToUpper(s)]
		}
		if !ok {
			continue
		}
		out[s] = toRecord(e)
	}
	return out, nil
}

func listEquities(symbols []string) ([]finance.Equity, error) {
	iter := equity.List(symbols)
	var out []finance.Equity
	for iter.Next() {
		out = append(out, *iter.Equity())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func toRecord(e finance.Equity) provider.Record {
	rec := provider.Record{"symbol": e.Symbol}
	putFloat(rec, "regularMarketPrice", e.RegularMarketPrice)
	putFloat(rec, "previousClose", e.RegularMarketPreviousClose)
	putFloat(rec, "regularMarketOpen", e.RegularMarketOpen)
	putFloat(rec, "dayHigh", e.RegularMarketDayHigh)
	putFloat(rec, "dayLow", e.RegularMarketDayLow)
	putFloat(rec, "fiftyTwoWeekHigh", e.FiftyTwoWeekHigh)
	putFloat(rec, "fiftyTwoWeekLow", e.FiftyTwoWeekLow)
	putInt(rec, "volume", int64(e.RegularMarketVolume))
	putInt(rec, "marketCap", e.MarketCap)
	return rec
}

func putFloat(rec provider.Record, key string, v float64) {
	if v != 0 {
		rec[key] = v
	}
}

func putInt(rec provider.Record, key string, v int64) {
	if v != 0 {
		rec[key] = v
	}
}

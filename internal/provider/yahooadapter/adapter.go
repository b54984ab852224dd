package yahooadapter

import (
	"context"
	"strings"

	"equityprices/internal/provider"
	"equityprices/internal/provider/yahoo"
)

type Config struct {
	Name string // display name, default: yfinance
}

// QuoteGetter is the part of the Yahoo client the adapter needs.
type QuoteGetter interface {
	GetQuotesV7(ctx context.Context, symbols []string, opts ...yahoo.YahooAPIClientOption) ([]yahoo.Quote, error)
}

type Adapter struct {
	cfg    Config
	client QuoteGetter
}

func New(cfg Config, client QuoteGetter) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "yfinance"
	}
	return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// aliases fills the short field names used by the quote normalizer from
// their regularMarket* counterparts when the short name is missing.
var aliases = map[string]string{
	"previousClose": "regularMarketPreviousClose",
	"dayHigh":       "regularMarketDayHigh",
	"dayLow":        "regularMarketDayLow",
	"volume":        "regularMarketVolume",
}

// Fetch issues one quote request for all symbols and indexes the answer
// by requested symbol. Symbols missing from the answer are left out.
func (a *Adapter) Fetch(ctx context.Context, symbols []string) (provider.Records, error) {
	quotes, err := a.client.GetQuotesV7(ctx, symbols)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]yahoo.Quote, len(quotes))
	byUpper := make(map[string]yahoo.Quote, len(quotes))
	for _, q := range quotes {
		s := q.Symbol()
		if s == "" {
			continue
		}
		bySymbol[s] = q
		byUpper[strings.ToUpper(s)] = q
	}

	out := make(provider.Records, len(symbols))
	for _, s := range symbols {
		q, ok := bySymbol[s]
		if !ok {
			// Yahoo echoes symbols upper-cased
			q, ok = byUpper[strings.ToUpper(s)]
		}
		if !ok {
			continue
		}
		out[s] = toRecord(q)
	}
	return out, nil
}

func toRecord(q yahoo.Quote) provider.Record {
	rec := make(provider.Record, len(q)+len(aliases))
	for k, v := range q {
		rec[k] = v
	}
	for short, long := range aliases {
		if rec[short] != nil {
			continue
		}
		if v, ok := q[long]; ok {
			rec[short] = v
		}
	}
	return rec
}

package fake

import (
	"context"
	"maps"
	"slices"
	"sync"

	"equityprices/internal/provider"
)

// Provider answers every symbol with a copy of Base, except symbols listed
// in Records (returned as given) and Missing (left out of the answer).
// Err, when set, fails the whole aggregate call.
type Provider struct {
	ID      string
	Base    provider.Record
	Records provider.Records
	Missing map[string]bool
	Err     error

	// TrackCalls keeps every batch passed to Fetch; see Calls.
	TrackCalls bool

	mu    sync.Mutex
	calls [][]string
}

// Default returns the offline provider used for local runs.
func Default() *Provider {
	return &Provider{
		ID: "fake",
		Base: provider.Record{
			"regularMarketPrice": 100.0,
			"previousClose":      99.5,
			"regularMarketOpen":  99.75,
			"dayHigh":            101.0,
			"dayLow":             98.5,
			"volume":             int64(1_000_000),
			"marketCap":          int64(10_000_000_000),
			"fiftyTwoWeekHigh":   120.0,
			"fiftyTwoWeekLow":    80.0,
		},
	}
}

// NewTracking returns Default with call tracking on.
func NewTracking() *Provider {
	p := Default()
	p.TrackCalls = true
	return p
}

// Calls returns the batches seen so far when TrackCalls is set.
func (f *Provider) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *Provider) Name() string {
	if f.ID == "" {
		return "fake"
	}
	return f.ID
}

func (f *Provider) Fetch(ctx context.Context, symbols []string) (provider.Records, error) {
	if f.TrackCalls {
		f.mu.Lock()
		f.calls = append(f.calls, slices.Clone(symbols))
		f.mu.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	out := make(provider.Records, len(symbols))
	for _, s := range symbols {
		if f.Missing[s] {
			continue
		}
		if rec, ok := f.Records[s]; ok {
			out[s] = rec
			continue
		}
		rec := maps.Clone(f.Base)
		if rec == nil {
			rec = provider.Record{}
		}
		rec["symbol"] = s
		out[s] = rec
	}
	return out, nil
}

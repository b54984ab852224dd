package provider

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrSymbolNotFound reports that an aggregate response carried no record
// for a requested symbol.
var ErrSymbolNotFound = errors.New("symbol not found in provider response")

// Record is the raw field set a provider returns for one symbol, keyed by
// the provider's own field names (e.g. "currentPrice", "regularMarketPrice").
// Values are nil, float64, int64, json.Number or string.
type Record map[string]any

// Records holds one aggregate response keyed by requested symbol.
type Records map[string]Record

// Lookup returns the record for symbol or ErrSymbolNotFound.
func (r Records) Lookup(symbol string) (Record, error) {
	rec, ok := r[symbol]
	if !ok || rec == nil {
		return nil, ErrSymbolNotFound
	}
	return rec, nil
}

// Provider answers one aggregate request for a batch of symbols.
//
//go:generate mockgen -package=provider -destination=mock_provider.go -source=provider.go Provider
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbols []string) (Records, error)
}

// Registry resolves providers by id.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Register adds p under id, replacing any previous entry.
func (r *Registry) Register(id string, p Provider) {
	r.mu.Lock()
	r.providers[id] = p
	r.mu.Unlock()
}

func (r *Registry) Get(id string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	return p, ok
}

// Names returns the registered ids in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.providers))
	for id := range r.providers {
		out = append(out, id)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

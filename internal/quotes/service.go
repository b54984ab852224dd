package quotes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"equityprices/internal/aggregate"
	"equityprices/internal/provider"
)

const (
	// DefaultProvider is used when a request names no provider.
	DefaultProvider = "yfinance"
	// DefaultChunkSize is the number of symbols sent per provider call.
	DefaultChunkSize = 50
)

// ErrUnknownProvider is returned for a provider id missing from the registry.
var ErrUnknownProvider = errors.New("unknown provider")

// Service fetches quotes batch by batch from registered providers.
type Service struct {
	registry        *provider.Registry
	defaultProvider string
	logger          *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultProvider sets the id used when Fetch gets an empty id.
func WithDefaultProvider(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.defaultProvider = id
		}
	}
}

// WithLogger sets the logger; the global zap logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(registry *provider.Registry, opts ...Option) *Service {
	s := &Service{registry: registry, defaultProvider: DefaultProvider}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultProvider returns the id used for requests that name none.
func (s *Service) DefaultProvider() string { return s.defaultProvider }

func (s *Service) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return zap.L()
}

// Fetch resolves every symbol to a Result.
// Rules:
// - symbols are split into batches of chunkSize and each batch is one provider call.
// - batches run in order; a failed call marks every symbol of that batch failed.
// - a symbol's extraction failure only affects that symbol.
// - the output holds exactly one entry per unique input symbol.
func (s *Service) Fetch(ctx context.Context, symbols []string, providerID string, chunkSize int) (map[string]Result, error) {
	if providerID == "" {
		providerID = s.defaultProvider
	}
	p, ok := s.registry.Get(providerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, providerID)
	}
	batches, err := aggregate.Chunk(symbols, chunkSize)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Result, len(symbols))
	for i, batch := range batches {
		out = aggregate.Merge(out, s.fetchBatch(ctx, p, i, batch))
	}
	return out, nil
}

func (s *Service) fetchBatch(ctx context.Context, p provider.Provider, index int, batch []string) map[string]Result {
	out := make(map[string]Result, len(batch))

	recs, err := callProvider(ctx, p, batch)
	if err != nil {
		s.log().Warn("provider batch failed",
			zap.String("provider", p.Name()),
			zap.Int("batch", index),
			zap.Int("size", len(batch)),
			zap.Error(err))
		for _, sym := range batch {
			out[sym] = Failure(err)
		}
		return out
	}

	for _, sym := range batch {
		q, err := extractSymbol(sym, recs)
		if err != nil {
			s.log().Warn("quote extraction failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", sym),
				zap.Error(err))
			out[sym] = Failure(err)
			continue
		}
		out[sym] = Success(q)
	}
	return out
}

// callProvider turns a provider panic into an error for the batch.
func callProvider(ctx context.Context, p provider.Provider, batch []string) (recs provider.Records, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			recs, err = nil, fmt.Errorf("provider %s panicked: %v", p.Name(), rec)
		}
	}()
	return p.Fetch(ctx, batch)
}

func extractSymbol(sym string, recs provider.Records) (Quote, error) {
	rec, err := recs.Lookup(sym)
	if err != nil {
		return Quote{}, err
	}
	return Extract(sym, rec)
}

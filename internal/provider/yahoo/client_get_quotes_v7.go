package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"
)

// ErrNoSymbols is returned when GetQuotesV7 is called with an empty list.
var ErrNoSymbols = errors.New("no symbols requested")

// Quote is one raw entry of the v7 quote response. Numbers are decoded
// as json.Number so no precision is lost before normalization.
type Quote map[string]any

// Symbol returns the entry's "symbol" field, or "" when absent.
func (q Quote) Symbol() string {
	s, _ := q["symbol"].(string)
	return s
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []Quote `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// GetQuotesV7 retrieves quotes for all symbols in a single request.
func (c *YahooAPIClient) GetQuotesV7(ctx context.Context, symbols []string, opts ...YahooAPIClientOption) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	var override = &YahooAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      maps.Clone(c.query),
	}
	for _, opt := range opts {
		opt(override)
	}

	query := maps.Clone(override.query)
	query.Set("symbols", strings.Join(symbols, ","))

	url := fmt.Sprintf("%s/v7/finance/quote?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request with symbols=%s", strings.Join(symbols, ","))

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unauthorized: missing or stale crumb/cookie")

	case http.StatusNotFound:
		return nil, fmt.Errorf("quote endpoint not found")

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("unexpected status code: %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var body quoteResponse
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding quote response: %w", err)
	}
	if e := body.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("provider error: code=%s msg=%q", e.Code, e.Description)
	}

	var quotes = make([]Quote, 0, len(body.QuoteResponse.Result))
	for _, q := range body.QuoteResponse.Result {
		if q == nil {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

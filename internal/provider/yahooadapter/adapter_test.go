package yahooadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"equityprices/internal/provider"
	"equityprices/internal/provider/yahoo"
)

type fakeClient struct {
	quotes []yahoo.Quote
	err    error
	calls  [][]string
}

func (f *fakeClient) GetQuotesV7(_ context.Context, symbols []string, _ ...yahoo.YahooAPIClientOption) ([]yahoo.Quote, error) {
	f.calls = append(f.calls, symbols)
	return f.quotes, f.err
}

func TestAdapter_Fetch_IndexesBySymbolAndAliases(t *testing.T) {
	fc := &fakeClient{quotes: []yahoo.Quote{
		{
			"symbol":                     "AAPL",
			"regularMarketPrice":         json.Number("189.5"),
			"regularMarketPreviousClose": json.Number("187.25"),
			"regularMarketDayHigh":       json.Number("190.1"),
			"regularMarketDayLow":        json.Number("186.9"),
			"regularMarketVolume":        json.Number("52341234"),
		},
		{"symbol": "BRK-B", "regularMarketPrice": json.Number("410")},
		{"regularMarketPrice": json.Number("1")}, // no symbol, ignored
	}}
	a := New(Config{}, fc)
	require.Equal(t, "yfinance", a.Name())

	recs, err := a.Fetch(t.Context(), []string{"AAPL", "brk-b", "NOPE"})
	require.NoError(t, err)
	require.Len(t, fc.calls, 1, "one aggregate call per batch")
	require.Equal(t, []string{"AAPL", "brk-b", "NOPE"}, fc.calls[0])

	aapl, err := recs.Lookup("AAPL")
	require.NoError(t, err)
	require.Equal(t, json.Number("187.25"), aapl["previousClose"])
	require.Equal(t, json.Number("190.1"), aapl["dayHigh"])
	require.Equal(t, json.Number("186.9"), aapl["dayLow"])
	require.Equal(t, json.Number("52341234"), aapl["volume"])
	require.NotContains(t, aapl, "currentPrice")

	brk, err := recs.Lookup("brk-b")
	require.NoError(t, err)
	require.Equal(t, json.Number("410"), brk["regularMarketPrice"])

	_, err = recs.Lookup("NOPE")
	require.ErrorIs(t, err, provider.ErrSymbolNotFound)
}

func TestAdapter_Fetch_ShortNameWins(t *testing.T) {
	fc := &fakeClient{quotes: []yahoo.Quote{{
		"symbol":               "AAPL",
		"dayHigh":              json.Number("5"),
		"regularMarketDayHigh": json.Number("6"),
	}}}
	recs, err := New(Config{Name: "yahoo"}, fc).Fetch(t.Context(), []string{"AAPL"})
	require.NoError(t, err)
	require.Equal(t, json.Number("5"), recs["AAPL"]["dayHigh"])
}

func TestAdapter_Fetch_ClientError(t *testing.T) {
	fc := &fakeClient{err: errors.New("rate limited")}
	recs, err := New(Config{}, fc).Fetch(t.Context(), []string{"AAPL"})
	require.EqualError(t, err, "rate limited")
	require.Nil(t, recs)
}

package quotes

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestResult_MarshalJSON_Success(t *testing.T) {
	vol := int64(1200)
	r := Success(Quote{
		Symbol:  "AAA",
		Price:   decimal.NewNullDecimal(decimal.RequireFromString("42.5")),
		DayHigh: decimal.NewNullDecimal(decimal.RequireFromString("43")),
		Volume:  &vol,
	})
	require.True(t, r.OK())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"symbol": "AAA",
		"price": 42.5,
		"previous_close": null,
		"open": null,
		"day_high": 43,
		"day_low": null,
		"volume": 1200,
		"market_cap": null,
		"52_week_high": null,
		"52_week_low": null
	}`, string(b))
}

func TestResult_MarshalJSON_Failure(t *testing.T) {
	r := Failure(errors.New("symbol not found in provider response"))
	require.False(t, r.OK())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"symbol not found in provider response"}`, string(b))

	require.Equal(t, "unknown error", Failure(nil).Err)
}

func TestResult_UnmarshalJSON(t *testing.T) {
	var got map[string]Result
	err := json.Unmarshal([]byte(`{
		"AAA": {"symbol":"AAA","price":42.5,"previous_close":null,"volume":10,"52_week_low":"3.25"},
		"BBB": {"error":"boom"}
	}`), &got)
	require.NoError(t, err)

	require.True(t, got["AAA"].OK())
	require.Equal(t, "AAA", got["AAA"].Quote.Symbol)
	require.True(t, got["AAA"].Quote.Price.Decimal.Equal(decimal.RequireFromString("42.5")))
	require.False(t, got["AAA"].Quote.PreviousClose.Valid)
	require.Equal(t, int64(10), *got["AAA"].Quote.Volume)
	require.True(t, got["AAA"].Quote.Low52Week.Decimal.Equal(decimal.RequireFromString("3.25")))

	require.False(t, got["BBB"].OK())
	require.Equal(t, "boom", got["BBB"].Err)

	var r Result
	require.Error(t, json.Unmarshal([]byte(`null`), &r))
}

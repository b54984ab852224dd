package quotes

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"equityprices/internal/provider"
)

// ErrMalformedField reports a provider field present with an unusable value.
var ErrMalformedField = errors.New("malformed field")

// Provider field names read by Extract.
const (
	fieldCurrentPrice     = "currentPrice"
	fieldRegularPrice     = "regularMarketPrice"
	fieldPreviousClose    = "previousClose"
	fieldOpen             = "regularMarketOpen"
	fieldDayHigh          = "dayHigh"
	fieldDayLow           = "dayLow"
	fieldVolume           = "volume"
	fieldMarketCap        = "marketCap"
	fieldFiftyTwoWeekHigh = "fiftyTwoWeekHigh"
	fieldFiftyTwoWeekLow  = "fiftyTwoWeekLow"
)

// Extract normalizes a provider record into a Quote.
// Rules:
// - price is currentPrice when non-null, else regularMarketPrice, else absent.
// - every other field is a single lookup; missing or null means absent.
// - a present field with an unusable value fails the whole symbol.
func Extract(symbol string, rec provider.Record) (Quote, error) {
	if rec == nil {
		return Quote{}, provider.ErrSymbolNotFound
	}
	q := Quote{Symbol: symbol}
	var err error

	priceKey := fieldCurrentPrice
	if rec[fieldCurrentPrice] == nil {
		priceKey = fieldRegularPrice
	}
	decimals := []struct {
		key string
		dst *decimal.NullDecimal
	}{
		{priceKey, &q.Price},
		{fieldPreviousClose, &q.PreviousClose},
		{fieldOpen, &q.Open},
		{fieldDayHigh, &q.DayHigh},
		{fieldDayLow, &q.DayLow},
		{fieldFiftyTwoWeekHigh, &q.High52Week},
		{fieldFiftyTwoWeekLow, &q.Low52Week},
	}
	for _, f := range decimals {
		if *f.dst, err = decimalField(rec, f.key); err != nil {
			return Quote{}, err
		}
	}
	if q.Volume, err = intField(rec, fieldVolume); err != nil {
		return Quote{}, err
	}
	if q.MarketCap, err = intField(rec, fieldMarketCap); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func malformed(key string, v any) error {
	return fmt.Errorf("%w %q: unexpected value %v (%T)", ErrMalformedField, key, v, v)
}

func decimalField(rec provider.Record, key string) (decimal.NullDecimal, error) {
	v := rec[key]
	switch t := v.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.NullDecimal{}, malformed(key, v)
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(t)), nil
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return decimal.NullDecimal{}, malformed(key, v)
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat32(t)), nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(t))), nil
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(t)), nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.NullDecimal{}, malformed(key, v)
		}
		return decimal.NewNullDecimal(d), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.NullDecimal{}, malformed(key, v)
		}
		return decimal.NewNullDecimal(d), nil
	default:
		return decimal.NullDecimal{}, malformed(key, v)
	}
}

func intField(rec provider.Record, key string) (*int64, error) {
	v := rec[key]
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		n := int64(t)
		return &n, nil
	case int64:
		return &t, nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || t >= math.MaxInt64 || t < math.MinInt64 {
			return nil, malformed(key, v)
		}
		n := int64(t)
		return &n, nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return &n, nil
		}
		d, err := decimal.NewFromString(t.String())
		if err != nil || !d.IsInteger() {
			return nil, malformed(key, v)
		}
		n := d.IntPart()
		return &n, nil
	default:
		return nil, malformed(key, v)
	}
}
